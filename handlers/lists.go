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

type CandidateListHandler struct {
	svc *election.Service
}

func NewCandidateListHandler(svc *election.Service) *CandidateListHandler {
	return &CandidateListHandler{svc: svc}
}

// Create handles POST /candidate-lists (admin only)
func (h *CandidateListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateListRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	list, err := h.svc.CreateCandidateList(req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("candidate list created", "list_id", list.ID, "name", list.Name)
	middleware.JSONResponse(w, http.StatusCreated, list)
}

// List handles GET /candidate-lists (admin only)
func (h *CandidateListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.ListCandidateLists()
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, lists)
}

// Get handles GET /candidate-lists/{id}
// Returns the list with its member voters.
func (h *CandidateListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetCandidateList(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}
