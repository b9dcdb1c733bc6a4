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

type VotingHandler struct {
	svc *election.Service
}

func NewVotingHandler(svc *election.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// Cast handles POST /elections/{id}/vote
func (h *VotingHandler) Cast(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)
	electionID := r.PathValue("id")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	vote, err := h.svc.CastVote(principal.VoterID, electionID, req.CandidateID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("vote cast", "election_id", electionID, "voter_id", principal.VoterID)
	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  vote.ID,
		Message: "Vote recorded",
	})
}

// Status handles GET /elections/{id}/vote
// Tells the caller whether they have already voted in the election.
func (h *VotingHandler) Status(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)
	electionID := r.PathValue("id")

	if _, err := h.svc.GetElection(electionID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	voted, err := h.svc.HasVoted(principal.VoterID, electionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"has_voted": voted})
}
