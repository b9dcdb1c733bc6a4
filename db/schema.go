// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is restricted to the dialect shared by PostgreSQL and SQLite:
// no NOW() defaults (timestamps are always bound from Go), no JSONB
// (criteria is stored as JSON text), and numbered placeholders in all
// queries. election.result_id carries no REFERENCES clause because
// election and result reference each other.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    reg_number TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    academic_year TEXT NOT NULL,
    class_year INTEGER NOT NULL CHECK (class_year BETWEEN 1 AND 5),
    program TEXT NOT NULL,
    sport_type TEXT,
    fingerprint_id TEXT,
    is_first_login BOOLEAN NOT NULL DEFAULT TRUE,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voter_academic_year ON voter(academic_year);

-- Voter activity tags (many-to-many as a join table)
CREATE TABLE IF NOT EXISTS voter_activity (
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    activity TEXT NOT NULL,
    PRIMARY KEY (voter_id, activity)
);

-- Candidate lists
CREATE TABLE IF NOT EXISTS candidate_list (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS candidate_list_member (
    list_id TEXT NOT NULL REFERENCES candidate_list(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    PRIMARY KEY (list_id, voter_id)
);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    start_at TIMESTAMP NOT NULL,
    end_at TIMESTAMP NOT NULL,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'closed')),
    candidate_list_id TEXT REFERENCES candidate_list(id),
    criteria TEXT NOT NULL DEFAULT '{}',
    result_id TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);
CREATE INDEX IF NOT EXISTS idx_election_window ON election(start_at, end_at);

-- Votes. The UNIQUE(election_id, voter_id) index is the atomic
-- check-and-insert boundary: concurrent casts for the same pair cannot
-- both commit.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    valid BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (election_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_election ON vote(election_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate ON vote(election_id, candidate_id);

-- Published results and their frozen vote membership. The
-- UNIQUE(election_id) constraint keeps the election/result relation
-- one-to-one when publishes race: the second writer's insert is rejected
-- and retried against the surviving row.
CREATE TABLE IF NOT EXISTS result (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL UNIQUE REFERENCES election(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS result_vote (
    result_id TEXT NOT NULL REFERENCES result(id) ON DELETE CASCADE,
    vote_id TEXT NOT NULL REFERENCES vote(id) ON DELETE CASCADE,
    PRIMARY KEY (result_id, vote_id)
);

-- Refresh tokens revoked by logout
CREATE TABLE IF NOT EXISTS token_blacklist (
    token_id TEXT PRIMARY KEY,
    expires_at TIMESTAMP NOT NULL
);
`
