// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"campusvote/auth"
	"campusvote/election"
	"campusvote/models"
)

type contextKey string

const principalKey contextKey = "principal"

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// statusForKind maps core error kinds to HTTP status codes.
func statusForKind(kind election.Kind) int {
	switch kind {
	case election.KindValidation, election.KindInvalidCandidate,
		election.KindAlreadyVoted, election.KindElectionClosed,
		election.KindElectionStillOpen, election.KindNotPublished:
		return http.StatusBadRequest
	case election.KindNotEligible, election.KindNotPermitted:
		return http.StatusForbidden
	case election.KindNotFound:
		return http.StatusNotFound
	case election.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError translates a core error into a transport response. Errors
// without a kind become opaque 500s; internal detail never reaches
// non-privileged callers.
func WriteError(w http.ResponseWriter, err error) {
	var coreErr *election.Error
	if !errors.As(err, &coreErr) {
		slog.Error("unclassified error", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return
	}
	JSONResponse(w, statusForKind(coreErr.Kind), models.ErrorResponse{
		Error:   string(coreErr.Kind),
		Message: coreErr.Message,
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth verifies the Bearer access token and stores the principal
// in the request context.
func RequireAuth(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			ErrorResponse(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		principal, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if principal.Type != auth.TokenAccess {
			ErrorResponse(w, http.StatusUnauthorized, "Access token required")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is RequireAuth plus a privileged-principal check. The
// is_admin claim is trusted as given by the identity provider.
func RequireAdmin(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(secret, func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFrom(r)
		if !principal.IsAdmin {
			ErrorResponse(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		next(w, r)
	})
}

// PrincipalFrom extracts the authenticated principal set by RequireAuth.
func PrincipalFrom(r *http.Request) (auth.Principal, bool) {
	principal, ok := r.Context().Value(principalKey).(auth.Principal)
	return principal, ok
}
