// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"campusvote/auth"
	"campusvote/cliparse"
	"campusvote/election"
	"campusvote/fingerprint"
	"campusvote/middleware"
	"campusvote/models"
)

// Token lifetimes
const (
	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour
)

type AuthHandler struct {
	db     *sql.DB
	svc    *election.Service
	cfg    cliparse.Config
	sensor fingerprint.Sensor
}

func NewAuthHandler(db *sql.DB, svc *election.Service, cfg cliparse.Config, sensor fingerprint.Sensor) *AuthHandler {
	return &AuthHandler{db: db, svc: svc, cfg: cfg, sensor: sensor}
}

func (h *AuthHandler) issuePair(voter models.Voter) (access, refresh string, err error) {
	secret := []byte(h.cfg.JWTSecret)
	access, err = auth.IssueToken(voter.ID, voter.Username, voter.IsAdmin, auth.TokenAccess, accessTTL, secret)
	if err != nil {
		return "", "", err
	}
	refresh, err = auth.IssueToken(voter.ID, voter.Username, voter.IsAdmin, auth.TokenRefresh, refreshTTL, secret)
	return access, refresh, err
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	voter, err := h.svc.GetVoterByUsername(req.Username)
	if err != nil || !auth.CheckPassword(voter.PasswordHash, req.Password) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, refresh, err := h.issuePair(voter)
	if err != nil {
		slog.Error("failed to issue tokens", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("voter logged in", "voter_id", voter.ID, "username", voter.Username)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Access:       access,
		Refresh:      refresh,
		VoterID:      voter.ID,
		IsFirstLogin: voter.IsFirstLogin,
	})
}

// Refresh handles POST /auth/refresh
// Exchanges a non-blacklisted refresh token for a fresh access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	principal, err := auth.ParseToken(req.Refresh, []byte(h.cfg.JWTSecret))
	if err != nil || principal.Type != auth.TokenRefresh {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	var revoked bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE token_id = $1)
	`, principal.TokenID).Scan(&revoked)
	if err != nil {
		slog.Error("failed to check token blacklist", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if revoked {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Refresh token has been revoked")
		return
	}

	access, err := auth.IssueToken(principal.VoterID, principal.Username, principal.IsAdmin,
		auth.TokenAccess, accessTTL, []byte(h.cfg.JWTSecret))
	if err != nil {
		slog.Error("failed to issue access token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to refresh")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"access": access})
}

// Logout handles POST /auth/logout
// Blacklists the presented refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	principal, err := auth.ParseToken(req.Refresh, []byte(h.cfg.JWTSecret))
	if err != nil || principal.Type != auth.TokenRefresh {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid refresh token")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO token_blacklist (token_id, expires_at) VALUES ($1, $2)
	`, principal.TokenID, principal.Expires)
	if err != nil && !isDuplicate(err) {
		slog.Error("failed to blacklist token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	slog.Info("voter logged out", "voter_id", principal.VoterID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// FirstLogin handles POST /auth/first-login
// Completes registration: sets a new password, enrolls a fingerprint,
// and clears the first-login flag.
func (h *AuthHandler) FirstLogin(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r)

	var req models.FirstLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.NewPassword) < 6 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "new_password must be at least 6 characters")
		return
	}

	voter, err := h.svc.GetVoter(principal.VoterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !voter.IsFirstLogin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Not first login")
		return
	}
	if h.sensor == nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Fingerprint sensor not configured")
		return
	}

	templateID, err := h.sensor.Enroll(voter.ID)
	if err != nil {
		slog.Error("fingerprint enrollment failed", "voter_id", voter.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to enroll fingerprint")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	_, err = h.db.Exec(`
		UPDATE voter SET password_hash = $1, fingerprint_id = $2, is_first_login = FALSE
		WHERE id = $3
	`, hash, templateID, voter.ID)
	if err != nil {
		slog.Error("failed to complete first login", "voter_id", voter.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("first login completed", "voter_id", voter.ID, "template_id", templateID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Password and fingerprint updated"})
}

// isDuplicate reports whether err is a unique-constraint violation, for
// either database driver.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
