// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusvote/election"
	"campusvote/middleware"
	"campusvote/models"
	"campusvote/testutil"
)

func TestElectionCRUD(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := election.NewService(conn, nil)
	handler := NewElectionHandler(svc)
	secret := []byte(cfg.JWTSecret)

	adminID := testutil.CreateTestAdmin(t, conn, "5001", "root")
	adminHeader := testutil.AuthHeader(t, adminID, "root", true)
	candidateID := testutil.CreateTestVoter(t, conn, "5002", "bob", 4, "INFO")
	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)

	var electionID string

	t.Run("create", func(t *testing.T) {
		create := middleware.RequireAdmin(secret, handler.Create)
		now := time.Now()
		req := testutil.MakeRequest("POST", "/elections", models.CreateElectionRequest{
			Name:            "Student Council",
			StartAt:         now,
			EndAt:           now.Add(24 * time.Hour),
			CandidateListID: &listID,
			Criteria:        &models.Criteria{Programs: []string{"INFO"}},
		}, adminHeader)
		w := httptest.NewRecorder()
		create(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var e models.Election
		testutil.AssertJSON(t, w, &e)
		electionID = e.ID
		if e.Status != models.StatusOpen {
			t.Errorf("Expected open election, got %s", e.Status)
		}
	})

	t.Run("create refused for non-admins", func(t *testing.T) {
		create := middleware.RequireAdmin(secret, handler.Create)
		req := testutil.MakeRequest("POST", "/elections", models.CreateElectionRequest{
			Name: "Rogue", StartAt: time.Now(), EndAt: time.Now().Add(time.Hour),
		}, testutil.AuthHeader(t, candidateID, "bob", false))
		w := httptest.NewRecorder()
		create(w, req)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("update", func(t *testing.T) {
		update := middleware.RequireAdmin(secret, handler.Update)
		newName := "Renamed Council"
		req := testutil.MakeRequest("PATCH", "/elections/"+electionID,
			models.UpdateElectionRequest{Name: &newName}, adminHeader)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		update(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("delete", func(t *testing.T) {
		del := middleware.RequireAdmin(secret, handler.Delete)
		req := testutil.MakeRequest("DELETE", "/elections/"+electionID, nil, adminHeader)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		del(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	})
}

func TestElectionListFiltersByEligibility(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := election.NewService(conn, nil)
	handler := NewElectionHandler(svc)
	secret := []byte(cfg.JWTSecret)
	list := middleware.RequireAuth(secret, handler.List)

	adminID := testutil.CreateTestAdmin(t, conn, "5101", "root")
	infoVoter := testutil.CreateTestVoter(t, conn, "5102", "ines", 2, "INFO")
	candidateID := testutil.CreateTestVoter(t, conn, "5103", "carl", 4, "ECO")
	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)

	testutil.CreateTestElection(t, conn, "Everyone", "open", &listID, "")
	testutil.CreateTestElection(t, conn, "INFO Only", "open", &listID, `{"programs":["INFO"]}`)
	testutil.CreateTestElection(t, conn, "ECO Only", "open", &listID, `{"programs":["ECO"]}`)

	fetch := func(voterID, username string, isAdmin bool) []models.Election {
		req := testutil.MakeRequest("GET", "/elections", nil,
			testutil.AuthHeader(t, voterID, username, isAdmin))
		w := httptest.NewRecorder()
		list(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
		var elections []models.Election
		testutil.AssertJSON(t, w, &elections)
		return elections
	}

	if got := fetch(adminID, "root", true); len(got) != 3 {
		t.Errorf("Expected admin to see all 3 elections, got %d", len(got))
	}
	// INFO voter sees the unrestricted and the INFO election
	got := fetch(infoVoter, "ines", false)
	if len(got) != 2 {
		t.Fatalf("Expected voter to see 2 elections, got %d", len(got))
	}
	for _, e := range got {
		if e.Name == "ECO Only" {
			t.Error("Voter must not see elections they are not eligible for")
		}
	}
}

func TestElectionGetPermissions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := election.NewService(conn, nil)
	handler := NewElectionHandler(svc)
	get := middleware.RequireAuth([]byte(cfg.JWTSecret), handler.Get)

	outsider := testutil.CreateTestVoter(t, conn, "5201", "omar", 1, "DROIT")
	candidateID := testutil.CreateTestVoter(t, conn, "5202", "pia", 4, "INFO")
	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)
	electionID := testutil.CreateTestElection(t, conn, "INFO Only", "open", &listID,
		`{"programs":["INFO"]}`)

	req := testutil.MakeRequest("GET", "/elections/"+electionID, nil,
		testutil.AuthHeader(t, outsider, "omar", false))
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	get(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestElectionExportHTTP(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := election.NewService(conn, nil)
	handler := NewElectionHandler(svc)

	adminID := testutil.CreateTestAdmin(t, conn, "5301", "root")
	voterID := testutil.CreateTestVoter(t, conn, "5302", "rita", 2, "SA")
	candidateID := testutil.CreateTestVoter(t, conn, "5303", "sam", 4, "SA")
	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)
	electionID := testutil.CreateTestElection(t, conn, "Exported", "open", &listID, "")
	testutil.CastTestVote(t, conn, electionID, voterID, candidateID, true)

	export := middleware.RequireAdmin([]byte(cfg.JWTSecret), handler.Export)
	req := testutil.MakeRequest("GET", "/elections/export", nil,
		testutil.AuthHeader(t, adminID, "root", true))
	w := httptest.NewRecorder()
	export(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	if !strings.Contains(body, "Exported") {
		t.Error("Expected election name in CSV export")
	}
	if !strings.Contains(body, "total_eligible") {
		t.Error("Expected participation columns in CSV header")
	}
}
