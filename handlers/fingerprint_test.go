// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusvote/election"
	"campusvote/fingerprint"
	"campusvote/middleware"
	"campusvote/testutil"
)

func TestFingerprintVerify(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	svc := election.NewService(conn, nil)
	secret := []byte(cfg.JWTSecret)

	voterID := testutil.CreateTestVoter(t, conn, "6001", "alice", 2, "INFO")
	if _, err := conn.Exec(`UPDATE voter SET fingerprint_id = 'tpl-9' WHERE id = $1`, voterID); err != nil {
		t.Fatalf("Failed to enroll test fingerprint: %v", err)
	}

	verify := func(sensor fingerprint.Sensor) *httptest.ResponseRecorder {
		handler := NewFingerprintHandler(svc, sensor)
		wrapped := middleware.RequireAuth(secret, handler.Verify)
		req := testutil.MakeRequest("POST", "/fingerprint/verify", nil,
			testutil.AuthHeader(t, voterID, "alice", false))
		w := httptest.NewRecorder()
		wrapped(w, req)
		return w
	}

	t.Run("matching template", func(t *testing.T) {
		w := verify(&fakeSensor{verifyTemplate: "tpl-9"})
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("wrong finger", func(t *testing.T) {
		w := verify(&fakeSensor{verifyTemplate: "tpl-0"})
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("sensor timeout", func(t *testing.T) {
		w := verify(&fakeSensor{err: fingerprint.ErrTimeout})
		testutil.AssertStatus(t, w, http.StatusRequestTimeout)
	})

	t.Run("no sensor configured", func(t *testing.T) {
		w := verify(nil)
		testutil.AssertStatus(t, w, http.StatusInternalServerError)
	})

	t.Run("no fingerprint enrolled", func(t *testing.T) {
		bareID := testutil.CreateTestVoter(t, conn, "6002", "ben", 1, "ECO")
		handler := NewFingerprintHandler(svc, &fakeSensor{verifyTemplate: "tpl-9"})
		wrapped := middleware.RequireAuth(secret, handler.Verify)
		req := testutil.MakeRequest("POST", "/fingerprint/verify", nil,
			testutil.AuthHeader(t, bareID, "ben", false))
		w := httptest.NewRecorder()
		wrapped(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
