// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"campusvote/testutil"
)

func TestCastVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := NewService(conn, nil)

	voterID := testutil.CreateTestVoter(t, conn, "1001", "alice", 2, "INFO")
	otherID := testutil.CreateTestVoter(t, conn, "1002", "bob", 1, "ECO")
	candidateID := testutil.CreateTestVoter(t, conn, "1003", "carol", 3, "INFO")
	outsiderID := testutil.CreateTestVoter(t, conn, "1004", "dave", 3, "DROIT")

	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)
	electionID := testutil.CreateTestElection(t, conn, "Open Election", "open", &listID, "")

	t.Run("successful vote", func(t *testing.T) {
		vote, err := svc.CastVote(voterID, electionID, candidateID)
		if err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
		if !vote.Valid {
			t.Error("Expected vote to be valid")
		}

		count, err := svc.VoteCountFor(candidateID, electionID)
		if err != nil {
			t.Fatalf("VoteCountFor failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 vote, got %d", count)
		}
	})

	t.Run("second vote rejected", func(t *testing.T) {
		_, err := svc.CastVote(voterID, electionID, candidateID)
		if KindOf(err) != KindAlreadyVoted {
			t.Errorf("Expected AlreadyVoted, got %v", err)
		}
	})

	t.Run("candidate off the list rejected", func(t *testing.T) {
		_, err := svc.CastVote(otherID, electionID, outsiderID)
		if KindOf(err) != KindInvalidCandidate {
			t.Errorf("Expected InvalidCandidate, got %v", err)
		}
		// The rejected attempt must not have consumed the one-vote slot.
		voted, err := svc.HasVoted(otherID, electionID)
		if err != nil {
			t.Fatalf("HasVoted failed: %v", err)
		}
		if voted {
			t.Error("Rejected vote should not be recorded")
		}
	})

	t.Run("closed election rejected", func(t *testing.T) {
		closedID := testutil.CreateTestElection(t, conn, "Closed Election", "closed", &listID, "")
		_, err := svc.CastVote(otherID, closedID, candidateID)
		if KindOf(err) != KindElectionClosed {
			t.Errorf("Expected ElectionClosed, got %v", err)
		}
	})

	t.Run("ineligible voter rejected", func(t *testing.T) {
		restrictedID := testutil.CreateTestElection(t, conn, "INFO Only", "open", &listID,
			`{"programs":["INFO"]}`)
		_, err := svc.CastVote(otherID, restrictedID, candidateID)
		if KindOf(err) != KindNotEligible {
			t.Errorf("Expected NotEligible, got %v", err)
		}
	})

	t.Run("unknown election", func(t *testing.T) {
		_, err := svc.CastVote(voterID, "nonexistent", candidateID)
		if KindOf(err) != KindNotFound {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})
}

// TestConcurrentCastSameVoter verifies that simultaneous casts from one
// voter produce exactly one recorded vote.
func TestConcurrentCastSameVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := NewService(conn, nil)

	voterID := testutil.CreateTestVoter(t, conn, "2001", "eve", 2, "INFO")
	candidateID := testutil.CreateTestVoter(t, conn, "2002", "frank", 3, "INFO")
	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)
	electionID := testutil.CreateTestElection(t, conn, "Race Election", "open", &listID, "")

	numAttempts := 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CastVote(voterID, electionID, candidateID); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful cast, got %d", successCount.Load())
	}

	var voteCount int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID).Scan(&voteCount)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 1 {
		t.Errorf("Expected 1 vote in database, got %d", voteCount)
	}
}

// TestConcurrentCastDifferentVoters verifies that simultaneous casts
// from distinct voters all land.
func TestConcurrentCastDifferentVoters(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	svc := NewService(conn, nil)

	candidateID := testutil.CreateTestVoter(t, conn, "3000", "gina", 3, "INFO")
	listID := testutil.CreateTestCandidateList(t, conn, "Bureau", candidateID)
	electionID := testutil.CreateTestElection(t, conn, "Busy Election", "open", &listID, "")

	numVoters := 8
	voterIDs := make([]string, numVoters)
	for i := 0; i < numVoters; i++ {
		regNumber := fmt.Sprintf("30%02d", i+1)
		voterIDs[i] = testutil.CreateTestVoter(t, conn, regNumber, "voter"+regNumber, 1, "INFO")
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if _, err := svc.CastVote(voterIDs[idx], electionID, candidateID); err == nil {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful casts, got %d", numVoters, successCount.Load())
	}

	count, err := svc.VoteCountFor(candidateID, electionID)
	if err != nil {
		t.Fatalf("VoteCountFor failed: %v", err)
	}
	if count != numVoters {
		t.Errorf("Expected %d votes for candidate, got %d", numVoters, count)
	}
}
