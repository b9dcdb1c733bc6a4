// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"time"

	"campusvote/auth"
	"campusvote/models"
)

// CastVote records one ballot. Preconditions run in order and
// short-circuit: the election must be open, the voter eligible, not have
// voted before, and the candidate must be on the election's candidate
// list.
//
// The has-voted check, the candidate-membership check, and the insert run
// in one transaction, and the UNIQUE(election_id, voter_id) index
// arbitrates concurrent casts: a unique violation is re-checked once and
// surfaced as AlreadyVoted, since a conflict on this path is by
// definition the race that rule reports. The validity flag is decided by
// the in-transaction membership check, so no invalid-then-valid window
// exists.
func (s *Service) CastVote(voterID, electionID, candidateID string) (models.Vote, error) {
	e, err := s.GetElection(electionID)
	if err != nil {
		return models.Vote{}, err
	}
	if !IsOpen(e, time.Now()) {
		return models.Vote{}, Errf(KindElectionClosed, "this election is closed")
	}

	voter, err := s.GetVoter(voterID)
	if err != nil {
		return models.Vote{}, err
	}
	if !IsVoterAllowed(e, voter) {
		return models.Vote{}, Errf(KindNotEligible, "voter does not meet this election's criteria")
	}
	if e.CandidateListID == nil {
		return models.Vote{}, Errf(KindInvalidCandidate, "election has no candidate list")
	}

	vote, err := s.insertVote(voterID, e, candidateID)
	if err == nil {
		s.logger.Info("vote recorded", "election_id", electionID,
			"voter_id", voterID, "candidate_id", candidateID)
		return vote, nil
	}

	if KindOf(err) == KindConflict {
		// Lost the race against a concurrent cast for the same pair.
		// Re-check once, then report the rule the race violates.
		voted, checkErr := s.HasVoted(voterID, electionID)
		if checkErr == nil && voted {
			return models.Vote{}, Errf(KindAlreadyVoted, "you have already voted in this election")
		}
	}
	return models.Vote{}, err
}

func (s *Service) insertVote(voterID string, e models.Election, candidateID string) (models.Vote, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Vote{}, s.storeError("begin vote transaction", err)
	}
	defer tx.Rollback()

	var voted bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE election_id = $1 AND voter_id = $2)
	`, e.ID, voterID).Scan(&voted)
	if err != nil {
		return models.Vote{}, s.storeError("check has voted", err)
	}
	if voted {
		return models.Vote{}, Errf(KindAlreadyVoted, "you have already voted in this election")
	}

	// Membership decides both the precondition and the validity flag;
	// checking it inside the transaction closes the race against
	// concurrent candidate-list edits.
	var isCandidate bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM candidate_list_member WHERE list_id = $1 AND voter_id = $2)
	`, *e.CandidateListID, candidateID).Scan(&isCandidate)
	if err != nil {
		return models.Vote{}, s.storeError("check candidate membership", err)
	}
	if !isCandidate {
		return models.Vote{}, Errf(KindInvalidCandidate, "candidate is not on this election's list")
	}

	voteID, err := auth.GenerateID(16)
	if err != nil {
		return models.Vote{}, s.storeError("generate vote id", err)
	}
	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO vote (id, election_id, voter_id, candidate_id, valid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, voteID, e.ID, voterID, candidateID, true, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, Errf(KindConflict, "concurrent vote detected")
		}
		return models.Vote{}, s.storeError("insert vote", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, Errf(KindConflict, "concurrent vote detected")
		}
		return models.Vote{}, s.storeError("commit vote", err)
	}

	return models.Vote{
		ID:          voteID,
		ElectionID:  e.ID,
		VoterID:     voterID,
		CandidateID: candidateID,
		Valid:       true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasVoted reports whether a voter already cast a ballot in an election.
func (s *Service) HasVoted(voterID, electionID string) (bool, error) {
	var voted bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE election_id = $1 AND voter_id = $2)
	`, electionID, voterID).Scan(&voted)
	if err != nil {
		return false, s.storeError("check has voted", err)
	}
	return voted, nil
}

// VoteCountFor counts the valid votes a candidate received in an election.
func (s *Service) VoteCountFor(candidateID, electionID string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM vote
		WHERE election_id = $1 AND candidate_id = $2 AND valid = TRUE
	`, electionID, candidateID).Scan(&count)
	if err != nil {
		return 0, s.storeError("count votes", err)
	}
	return count, nil
}
