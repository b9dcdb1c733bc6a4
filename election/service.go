// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"campusvote/models"
)

// Service is the election core: voter directory, lifecycle, ballot store,
// and result aggregation over a single authoritative database.
type Service struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewService(db *sql.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger}
}

// isUniqueViolation matches the unique-constraint messages of both
// supported drivers (lib/pq and modernc sqlite).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// storeError logs the underlying cause and returns the opaque
// StoreUnavailable error surfaced to callers. Transient store failures are
// the caller's responsibility to retry.
func (s *Service) storeError(op string, err error) error {
	s.logger.Error("store operation failed", "op", op, "error", err)
	return Errf(KindStoreUnavailable, "database error")
}

func marshalCriteria(c models.Criteria) string {
	raw, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func unmarshalCriteria(raw string) models.Criteria {
	var c models.Criteria
	if raw == "" {
		return c
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return models.Criteria{}
	}
	return c
}
