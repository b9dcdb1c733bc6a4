// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"campusvote/election"
	"campusvote/fingerprint"
	"campusvote/middleware"
	"campusvote/models"
)

type FingerprintHandler struct {
	svc    *election.Service
	sensor fingerprint.Sensor
}

func NewFingerprintHandler(svc *election.Service, sensor fingerprint.Sensor) *FingerprintHandler {
	return &FingerprintHandler{svc: svc, sensor: sensor}
}

// Verify handles POST /fingerprint/verify
// Captures a fingerprint from the sensor and checks it matches the
// template enrolled for the logged-in voter.
func (h *FingerprintHandler) Verify(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)

	voter, err := h.svc.GetVoter(principal.VoterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if voter.FingerprintID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No fingerprint enrolled")
		return
	}
	if h.sensor == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Fingerprint sensor not configured")
		return
	}

	templateID, err := h.sensor.Verify()
	if err != nil {
		if errors.Is(err, fingerprint.ErrTimeout) {
			middleware.ErrorResponse(w, http.StatusRequestTimeout, "Fingerprint capture timed out")
			return
		}
		slog.Error("fingerprint verification failed", "voter_id", voter.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Fingerprint verification failed")
		return
	}
	if templateID != *voter.FingerprintID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Fingerprint does not match")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Fingerprint verified"})
}
