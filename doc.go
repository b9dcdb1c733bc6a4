// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the campusvote API server.

Campusvote is a student-election backend: administrators manage the
voter roster (individually or by CSV import), group candidates into
lists, and open elections restricted by class, program, activity, and
sport criteria. Eligible voters authenticate with JWT, complete a
first-login step (new password plus fingerprint enrollment), and cast
exactly one vote per election. Results stay hidden until an
administrator publishes them.

# Starting the Server

The server requires environment variables or CLI flags for
configuration (a .env file in the working directory is honored):

	DATABASE_URL=campusvote.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 8742 -d "postgres://..." -t postgres -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): Token signing secret

Optional settings:

  - PORT (-p): Server port (default: 8742)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - ACADEMIC_YEAR (--year): Roster year filter (default: 2024-2025)
  - SWEEP_SECONDS (--sweep): Expired-election sweep interval (default: 60)
  - SENSOR_PORT (--sensor): Fingerprint sensor device path

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, voters, elections, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: JWT auth, CORS, logging, JSON and error helpers
  - models: Domain and request/response types
  - election: Core rules (eligibility, voting, lifecycle, results)
  - auth: Password hashing and JWT issue/verify
  - importer: CSV voter roster import
  - fingerprint: Sensor protocol
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
