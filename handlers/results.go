// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"campusvote/election"
	"campusvote/middleware"
	"campusvote/models"
)

type ResultsHandler struct {
	svc *election.Service
}

func NewResultsHandler(svc *election.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// Get handles GET /elections/{id}/results
// Admins see live tallies; everyone else only after publication.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)

	summary, err := h.svc.Summarize(r.PathValue("id"), principal.IsAdmin)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// Publish handles POST /elections/{id}/publish (admin only)
// Closes out the election and freezes its result set.
func (h *ResultsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	result, err := h.svc.Publish(electionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("election results published", "election_id", electionID, "result_id", result.ID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Results published"})
}
