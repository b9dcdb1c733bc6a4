// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"campusvote/cliparse"
	"campusvote/election"
	"campusvote/fingerprint"
	"campusvote/handlers"
	"campusvote/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, sensor fingerprint.Sensor) *http.ServeMux {
	mux := http.NewServeMux()
	secret := []byte(cfg.JWTSecret)

	svc := election.NewService(db, nil)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, svc, cfg, sensor)
	voterHandler := handlers.NewVoterHandler(svc, cfg)
	listHandler := handlers.NewCandidateListHandler(svc)
	electionHandler := handlers.NewElectionHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc)
	resultsHandler := handlers.NewResultsHandler(svc)
	fingerprintHandler := handlers.NewFingerprintHandler(svc, sensor)

	logged := middleware.WithLogging
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return logged(middleware.RequireAuth(secret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return logged(middleware.RequireAdmin(secret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/login", logged(authHandler.Login))
	mux.HandleFunc("POST /auth/refresh", logged(authHandler.Refresh))
	mux.HandleFunc("POST /auth/logout", authed(authHandler.Logout))
	mux.HandleFunc("POST /auth/first-login", authed(authHandler.FirstLogin))

	// Voter directory (admin operations, except self-lookup)
	mux.HandleFunc("POST /voters", admin(voterHandler.Create))
	mux.HandleFunc("GET /voters", admin(voterHandler.List))
	mux.HandleFunc("GET /voters/export", admin(voterHandler.Export))
	mux.HandleFunc("POST /voters/import", admin(voterHandler.Import))
	mux.HandleFunc("GET /voters/{id}", authed(voterHandler.Get))
	mux.HandleFunc("PATCH /voters/{id}", admin(voterHandler.Update))
	mux.HandleFunc("DELETE /voters/{id}", admin(voterHandler.Delete))

	// Candidate lists (admin operations)
	mux.HandleFunc("POST /candidate-lists", admin(listHandler.Create))
	mux.HandleFunc("GET /candidate-lists", admin(listHandler.List))
	mux.HandleFunc("GET /candidate-lists/{id}", authed(listHandler.Get))

	// Election lifecycle
	mux.HandleFunc("GET /elections", authed(electionHandler.List))
	mux.HandleFunc("POST /elections", admin(electionHandler.Create))
	mux.HandleFunc("GET /elections/export", admin(electionHandler.Export))
	mux.HandleFunc("GET /elections/{id}", authed(electionHandler.Get))
	mux.HandleFunc("PATCH /elections/{id}", admin(electionHandler.Update))
	mux.HandleFunc("DELETE /elections/{id}", admin(electionHandler.Delete))

	// Voting and results
	mux.HandleFunc("POST /elections/{id}/vote", authed(votingHandler.Cast))
	mux.HandleFunc("GET /elections/{id}/vote", authed(votingHandler.Status))
	mux.HandleFunc("GET /elections/{id}/results", authed(resultsHandler.Get))
	mux.HandleFunc("POST /elections/{id}/publish", admin(resultsHandler.Publish))

	// Fingerprint verification
	mux.HandleFunc("POST /fingerprint/verify", authed(fingerprintHandler.Verify))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("campusvote API v1"))
	})

	return mux
}
