// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"campusvote/auth"
	"campusvote/cliparse"
	"campusvote/db"
)

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database; the single connection keeps
// the shared-cache memory database alive for the test's lifetime.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8742,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    TestJWTSecret,
		AcademicYear: "2024-2025",
		SweepSeconds: 60,
	}
}

// CreateTestVoter inserts a voter and returns its ID. The password is
// the voter's registration number, matching initial credentials.
func CreateTestVoter(t *testing.T, conn *sql.DB, regNumber, username string, classYear int, program string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	hash, err := auth.HashPassword(regNumber)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO voter (id, reg_number, name, username, password_hash,
			academic_year, class_year, program, is_first_login, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, '2024-2025', $6, $7, TRUE, FALSE, $8)
	`, id, regNumber, "Voter "+regNumber, username, hash, classYear, program, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return id
}

// CreateTestAdmin inserts an administrator voter and returns its ID.
func CreateTestAdmin(t *testing.T, conn *sql.DB, regNumber, username string) string {
	t.Helper()

	id := CreateTestVoter(t, conn, regNumber, username, 5, "INFO")
	if _, err := conn.Exec(`UPDATE voter SET is_admin = TRUE, is_first_login = FALSE WHERE id = $1`, id); err != nil {
		t.Fatalf("Failed to promote test admin: %v", err)
	}
	return id
}

// AddTestActivity tags a voter with an activity.
func AddTestActivity(t *testing.T, conn *sql.DB, voterID, activity string) {
	t.Helper()

	if _, err := conn.Exec(`
		INSERT INTO voter_activity (voter_id, activity) VALUES ($1, $2)
	`, voterID, activity); err != nil {
		t.Fatalf("Failed to add test activity: %v", err)
	}
}

// SetTestSport sets a voter's sport discipline.
func SetTestSport(t *testing.T, conn *sql.DB, voterID, sport string) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE voter SET sport_type = $1 WHERE id = $2`, sport, voterID); err != nil {
		t.Fatalf("Failed to set test sport: %v", err)
	}
}

// CreateTestCandidateList creates a list with the given member voters
// and returns the list ID.
func CreateTestCandidateList(t *testing.T, conn *sql.DB, name string, voterIDs ...string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	if _, err := conn.Exec(`
		INSERT INTO candidate_list (id, name, created_at) VALUES ($1, $2, $3)
	`, id, name, time.Now()); err != nil {
		t.Fatalf("Failed to create test candidate list: %v", err)
	}
	for _, voterID := range voterIDs {
		if _, err := conn.Exec(`
			INSERT INTO candidate_list_member (list_id, voter_id) VALUES ($1, $2)
		`, id, voterID); err != nil {
			t.Fatalf("Failed to add test candidate: %v", err)
		}
	}
	return id
}

// CreateTestElection inserts an election and returns its ID.
// status should be "open" or "closed"; criteria is JSON text ("{}" for
// no restrictions).
func CreateTestElection(t *testing.T, conn *sql.DB, name, status string, listID *string, criteria string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	now := time.Now()
	end := now.Add(time.Hour)
	if status == "closed" {
		end = now.Add(-time.Hour)
	}
	if criteria == "" {
		criteria = "{}"
	}
	_, err := conn.Exec(`
		INSERT INTO election (id, name, start_at, end_at, status, candidate_list_id, criteria, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, name, now.Add(-time.Minute), end, status, listID, criteria, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	return id
}

// CastTestVote inserts a vote row directly and returns its ID.
func CastTestVote(t *testing.T, conn *sql.DB, electionID, voterID, candidateID string, valid bool) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO vote (id, election_id, voter_id, candidate_id, valid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, electionID, voterID, candidateID, valid, now, now)
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	return id
}

// AuthHeader returns an Authorization header map carrying a signed
// access token for the given voter.
func AuthHeader(t *testing.T, voterID, username string, isAdmin bool) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(voterID, username, isAdmin, auth.TokenAccess, time.Hour, []byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
