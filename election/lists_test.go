// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"testing"

	"campusvote/models"
	"campusvote/testutil"
)

func TestCreateCandidateList(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := NewService(conn, nil)

	cand1 := testutil.CreateTestVoter(t, conn, "7001", "ana", 3, "INFO")
	cand2 := testutil.CreateTestVoter(t, conn, "7002", "bruno", 4, "ECO")

	list, err := svc.CreateCandidateList(models.CreateCandidateListRequest{
		Name:         "Bureau 2025",
		CandidateIDs: []string{cand1, cand2, cand1}, // duplicate is tolerated
	})
	if err != nil {
		t.Fatalf("CreateCandidateList failed: %v", err)
	}
	if len(list.Candidates) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(list.Candidates))
	}

	t.Run("empty list rejected", func(t *testing.T) {
		_, err := svc.CreateCandidateList(models.CreateCandidateListRequest{Name: "Empty"})
		if KindOf(err) != KindValidation {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("unknown candidate rejected", func(t *testing.T) {
		_, err := svc.CreateCandidateList(models.CreateCandidateListRequest{
			Name:         "Ghosts",
			CandidateIDs: []string{"nonexistent"},
		})
		if KindOf(err) != KindNotFound {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})
}

func TestListCandidateLists(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := NewService(conn, nil)

	cand := testutil.CreateTestVoter(t, conn, "7101", "celia", 2, "ST")
	testutil.CreateTestCandidateList(t, conn, "Beta", cand)
	testutil.CreateTestCandidateList(t, conn, "Alpha", cand)

	lists, err := svc.ListCandidateLists()
	if err != nil {
		t.Fatalf("ListCandidateLists failed: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("Expected 2 lists, got %d", len(lists))
	}
	if lists[0].Name != "Alpha" {
		t.Errorf("Expected name ordering, got %s first", lists[0].Name)
	}
	for _, list := range lists {
		if len(list.Candidates) != 1 {
			t.Errorf("Expected candidates loaded for %s, got %d", list.Name, len(list.Candidates))
		}
	}
}
