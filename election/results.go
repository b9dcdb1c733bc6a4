// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"time"

	"campusvote/auth"
	"campusvote/models"
)

// eligibleVoters returns the ids of all voters passing the election's
// criteria. O(voters) scan through the evaluator; acceptable at the
// target scale and keeps eligibility logic in exactly one place.
func (s *Service) eligibleVoters(e models.Election) (map[string]bool, error) {
	voters, err := s.ListVoters("")
	if err != nil {
		return nil, err
	}
	eligible := map[string]bool{}
	for _, v := range voters {
		if IsAllowed(v, e.Criteria) {
			eligible[v.ID] = true
		}
	}
	return eligible, nil
}

type voteRef struct {
	ID      string
	VoterID string
}

func (s *Service) validVotes(electionID string) ([]voteRef, error) {
	rows, err := s.db.Query(`
		SELECT id, voter_id FROM vote WHERE election_id = $1 AND valid = TRUE
	`, electionID)
	if err != nil {
		return nil, s.storeError("load votes", err)
	}
	defer rows.Close()

	votes := []voteRef{}
	for rows.Next() {
		var v voteRef
		if err := rows.Scan(&v.ID, &v.VoterID); err != nil {
			return nil, s.storeError("scan vote", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// Publish freezes the election's valid votes from currently-eligible
// voters into a Result, attaches it, and forces the election closed.
// Fails with ElectionStillOpen while the election accepts ballots.
//
// Re-publishing reuses the existing Result row and refreshes its frozen
// vote membership; this matches the behavior the system always had and is
// a deliberate product decision (publication is a recomputation point,
// not a one-shot lock).
func (s *Service) Publish(electionID string) (models.Result, error) {
	e, err := s.GetElection(electionID)
	if err != nil {
		return models.Result{}, err
	}
	if IsOpen(e, time.Now()) {
		return models.Result{}, Errf(KindElectionStillOpen, "election is still open")
	}

	eligible, err := s.eligibleVoters(e)
	if err != nil {
		return models.Result{}, err
	}
	votes, err := s.validVotes(electionID)
	if err != nil {
		return models.Result{}, err
	}

	result, created, err := s.attachResult(electionID, eligible, votes)
	if KindOf(err) == KindConflict {
		// Lost the race against a concurrent publish; the result row now
		// exists, so the retry reuses it.
		result, created, err = s.attachResult(electionID, eligible, votes)
	}
	if err != nil {
		return models.Result{}, err
	}

	s.logger.Info("results published", "election_id", electionID,
		"result_id", result.ID, "recomputed", !created)
	return result, nil
}

// attachResult runs the publish write path in one transaction: find or
// create the election's single Result row, refresh its frozen vote
// membership, and force the election closed. The UNIQUE(election_id)
// constraint on result arbitrates concurrent publishes; a violation
// surfaces as Conflict for the caller to retry against the winner's row.
func (s *Service) attachResult(electionID string, eligible map[string]bool, votes []voteRef) (models.Result, bool, error) {
	now := time.Now()
	result := models.Result{ElectionID: electionID, CreatedAt: now, UpdatedAt: now}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Result{}, false, s.storeError("begin publish transaction", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		SELECT id, created_at FROM result WHERE election_id = $1
	`, electionID).Scan(&result.ID, &result.CreatedAt)
	if err != nil && err != sql.ErrNoRows {
		return models.Result{}, false, s.storeError("lookup result", err)
	}
	created := err == sql.ErrNoRows

	if created {
		result.ID, err = auth.GenerateID(16)
		if err != nil {
			return models.Result{}, false, s.storeError("generate result id", err)
		}
		_, err = tx.Exec(`
			INSERT INTO result (id, election_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
		`, result.ID, electionID, now, now)
		if err != nil && isUniqueViolation(err) {
			return models.Result{}, false, Errf(KindConflict, "concurrent publish detected")
		}
	} else {
		_, err = tx.Exec(`UPDATE result SET updated_at = $1 WHERE id = $2`, now, result.ID)
	}
	if err != nil {
		return models.Result{}, false, s.storeError("save result", err)
	}

	if _, err := tx.Exec(`DELETE FROM result_vote WHERE result_id = $1`, result.ID); err != nil {
		return models.Result{}, false, s.storeError("clear result votes", err)
	}
	for _, vote := range votes {
		if !eligible[vote.VoterID] {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO result_vote (result_id, vote_id) VALUES ($1, $2)
		`, result.ID, vote.ID); err != nil {
			return models.Result{}, false, s.storeError("freeze vote", err)
		}
	}

	// Publication forces closure regardless of the end time.
	if _, err := tx.Exec(`
		UPDATE election SET status = $1, result_id = $2 WHERE id = $3
	`, models.StatusClosed, result.ID, electionID); err != nil {
		return models.Result{}, false, s.storeError("attach result", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return models.Result{}, false, Errf(KindConflict, "concurrent publish detected")
		}
		return models.Result{}, false, s.storeError("commit publish", err)
	}

	result.UpdatedAt = now
	return result, created, nil
}

// Tally counts valid votes per candidate name for every candidate on the
// election's list, including zero rows. Independent of publication, so
// privileged callers can watch live counts.
func (s *Service) Tally(electionID string) (map[string]int, error) {
	e, err := s.GetElection(electionID)
	if err != nil {
		return nil, err
	}

	tally := map[string]int{}
	if e.CandidateListID == nil {
		return tally, nil
	}
	candidates, err := s.Candidates(*e.CandidateListID)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		count, err := s.VoteCountFor(c.ID, electionID)
		if err != nil {
			return nil, err
		}
		tally[c.Name] = count
	}
	return tally, nil
}

// Summarize builds the results view. Non-privileged requesters are
// refused with NotPublished until a Result is attached; privileged ones
// always see the live numbers.
func (s *Service) Summarize(electionID string, privileged bool) (models.ElectionSummary, error) {
	e, err := s.GetElection(electionID)
	if err != nil {
		return models.ElectionSummary{}, err
	}

	published := IsPublished(e)
	if !privileged && !published {
		return models.ElectionSummary{}, Errf(KindNotPublished, "results have not been published yet")
	}

	summary := models.ElectionSummary{
		Election:    e,
		Results:     map[string]int{},
		Candidates:  []models.CandidateCount{},
		IsPublished: published,
	}

	if e.CandidateListID != nil {
		candidates, err := s.Candidates(*e.CandidateListID)
		if err != nil {
			return models.ElectionSummary{}, err
		}
		for _, c := range candidates {
			count, err := s.VoteCountFor(c.ID, electionID)
			if err != nil {
				return models.ElectionSummary{}, err
			}
			summary.Results[c.Name] = count
			summary.Candidates = append(summary.Candidates, models.CandidateCount{
				CandidateID: c.ID,
				Name:        c.Name,
				VoteCount:   count,
			})
		}
	}

	eligible, err := s.eligibleVoters(e)
	if err != nil {
		return models.ElectionSummary{}, err
	}
	summary.TotalEligible = len(eligible)

	votes, err := s.validVotes(electionID)
	if err != nil {
		return models.ElectionSummary{}, err
	}
	for _, vote := range votes {
		if eligible[vote.VoterID] {
			summary.VotersWhoVoted++
		}
	}

	return summary, nil
}
