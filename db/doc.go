// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides database schema creation.

# Usage

Call CreateSchema after connecting:

	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		// handle
	}
	if err := db.CreateSchema(dbConn); err != nil {
		// handle
	}

# Portability

The server runs against PostgreSQL (github.com/lib/pq) in production and
SQLite (modernc.org/sqlite) for development and tests. The schema and all
queries stick to the shared dialect: TEXT ids, numbered $N placeholders,
timestamps bound from Go. When using SQLite, open the DSN with
_pragma=foreign_keys(1) so ON DELETE CASCADE is enforced.

# Tables

  - voter, voter_activity: the voter directory and its activity tags
  - candidate_list, candidate_list_member: named candidate sets
  - election: voting windows with criteria JSON and status
  - vote: one ballot per (election, voter), enforced by a unique index
  - result, result_vote: published results and their frozen vote sets
  - token_blacklist: refresh tokens revoked by logout
*/
package db
