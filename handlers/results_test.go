// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusvote/election"
	"campusvote/middleware"
	"campusvote/models"
	"campusvote/testutil"
)

func TestResultsVisibility(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := election.NewService(conn, nil)
	handler := NewResultsHandler(svc)
	secret := []byte(cfg.JWTSecret)
	get := middleware.RequireAuth(secret, handler.Get)
	publish := middleware.RequireAdmin(secret, handler.Publish)

	voterID := testutil.CreateTestVoter(t, conn, "3001", "alice", 2, "INFO")
	adminID := testutil.CreateTestAdmin(t, conn, "3002", "root")
	candidateID := testutil.CreateTestVoter(t, conn, "3003", "bob", 4, "INFO")
	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)
	electionID := testutil.CreateTestElection(t, conn, "Council", "closed", &listID, "")
	testutil.CastTestVote(t, conn, electionID, voterID, candidateID, true)

	fetch := func(voterID, username string, isAdmin bool) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/elections/"+electionID+"/results", nil,
			testutil.AuthHeader(t, voterID, username, isAdmin))
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		get(w, req)
		return w
	}

	t.Run("voter blocked before publication", func(t *testing.T) {
		w := fetch(voterID, "alice", false)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != string(election.KindNotPublished) {
			t.Errorf("Expected not_published, got %s", resp.Error)
		}
	})

	t.Run("admin sees live tallies before publication", func(t *testing.T) {
		w := fetch(adminID, "root", true)
		testutil.AssertStatus(t, w, http.StatusOK)
		var summary models.ElectionSummary
		testutil.AssertJSON(t, w, &summary)
		if summary.IsPublished {
			t.Error("Expected unpublished summary")
		}
		if summary.Results["Voter 3003"] != 1 {
			t.Errorf("Expected 1 vote for candidate, got %d", summary.Results["Voter 3003"])
		}
	})

	t.Run("publish requires admin", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/publish", nil,
			testutil.AuthHeader(t, voterID, "alice", false))
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		publish(w, req)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("publish opens results to voters", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/publish", nil,
			testutil.AuthHeader(t, adminID, "root", true))
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		publish(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		w2 := fetch(voterID, "alice", false)
		testutil.AssertStatus(t, w2, http.StatusOK)
		var summary models.ElectionSummary
		testutil.AssertJSON(t, w2, &summary)
		if !summary.IsPublished {
			t.Error("Expected published summary")
		}
		if summary.VotersWhoVoted != 1 {
			t.Errorf("Expected 1 voter who voted, got %d", summary.VotersWhoVoted)
		}
	})

	t.Run("publishing an open election fails", func(t *testing.T) {
		openID := testutil.CreateTestElection(t, conn, "Running", "open", &listID, "")
		req := testutil.MakeRequest("POST", "/elections/"+openID+"/publish", nil,
			testutil.AuthHeader(t, adminID, "root", true))
		req.SetPathValue("id", openID)
		w := httptest.NewRecorder()
		publish(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
