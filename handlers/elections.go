// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"campusvote/election"
	"campusvote/middleware"
	"campusvote/models"
)

type ElectionHandler struct {
	svc *election.Service
}

func NewElectionHandler(svc *election.Service) *ElectionHandler {
	return &ElectionHandler{svc: svc}
}

// List handles GET /elections
// Admins see everything; regular voters only see elections whose
// eligibility criteria they satisfy.
func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)

	elections, err := h.svc.ListElections()
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if principal.IsAdmin {
		middleware.JSONResponse(w, http.StatusOK, elections)
		return
	}

	voter, err := h.svc.GetVoter(principal.VoterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	visible := make([]models.Election, 0, len(elections))
	for _, e := range elections {
		if election.IsVoterAllowed(e, voter) {
			visible = append(visible, e)
		}
	}
	middleware.JSONResponse(w, http.StatusOK, visible)
}

// Get handles GET /elections/{id}
func (h *ElectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)

	e, err := h.svc.GetElection(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !principal.IsAdmin {
		voter, err := h.svc.GetVoter(principal.VoterID)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		if !election.IsVoterAllowed(e, voter) {
			middleware.ErrorResponse(w, http.StatusForbidden, "Not eligible for this election")
			return
		}
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// Create handles POST /elections (admin only)
func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.CreateElection(req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("election created", "election_id", e.ID, "name", e.Name)
	middleware.JSONResponse(w, http.StatusCreated, e)
}

// Update handles PATCH /elections/{id} (admin only)
func (h *ElectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.svc.UpdateElection(id, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("election updated", "election_id", e.ID)
	middleware.JSONResponse(w, http.StatusOK, e)
}

// Delete handles DELETE /elections/{id} (admin only)
func (h *ElectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.DeleteElection(id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("election deleted", "election_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Election deleted"})
}

// Export handles GET /elections/export (admin only)
// Streams one CSV row per election with participation figures.
func (h *ElectionHandler) Export(w http.ResponseWriter, r *http.Request) {
	elections, err := h.svc.ListElections()
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="elections.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"name", "status", "start_at", "end_at", "total_eligible", "voters_who_voted"})
	for _, e := range elections {
		summary, err := h.svc.Summarize(e.ID, true)
		if err != nil {
			slog.Error("failed to summarize election for export", "election_id", e.ID, "error", err)
			continue
		}
		cw.Write([]string{
			e.Name,
			e.Status,
			e.StartAt.Format(time.RFC3339),
			e.EndAt.Format(time.RFC3339),
			strconv.Itoa(summary.TotalEligible),
			strconv.Itoa(summary.VotersWhoVoted),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write election export", "error", err)
	}
}
