// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"time"

	"campusvote/auth"
	"campusvote/models"
)

// IsOpen reports whether the election currently accepts ballots: status
// is open and the end time has not passed. Expiry is evaluated lazily
// here; the background sweep persists the closed status.
func IsOpen(e models.Election, now time.Time) bool {
	return e.Status == models.StatusOpen && !now.After(e.EndAt)
}

// IsPublished reports whether the election has an attached result.
func IsPublished(e models.Election) bool {
	return e.ResultID != nil
}

// IsVoterAllowed delegates to the eligibility evaluator with this
// election's criteria.
func IsVoterAllowed(e models.Election, v models.Voter) bool {
	return IsAllowed(v, e.Criteria)
}

func (s *Service) scanElection(row *sql.Row) (models.Election, error) {
	var e models.Election
	var criteria string
	err := row.Scan(&e.ID, &e.Name, &e.StartAt, &e.EndAt, &e.Status,
		&e.CandidateListID, &criteria, &e.ResultID, &e.CreatedAt)
	if err != nil {
		return models.Election{}, err
	}
	e.Criteria = unmarshalCriteria(criteria)
	return e, nil
}

// GetElection loads one election.
func (s *Service) GetElection(id string) (models.Election, error) {
	e, err := s.scanElection(s.db.QueryRow(`
		SELECT id, name, start_at, end_at, status, candidate_list_id, criteria, result_id, created_at
		FROM election WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return models.Election{}, Errf(KindNotFound, "election not found")
	}
	if err != nil {
		return models.Election{}, s.storeError("get election", err)
	}
	return e, nil
}

// ListElections enumerates all elections, newest first.
func (s *Service) ListElections() ([]models.Election, error) {
	rows, err := s.db.Query(`
		SELECT id, name, start_at, end_at, status, candidate_list_id, criteria, result_id, created_at
		FROM election ORDER BY start_at DESC
	`)
	if err != nil {
		return nil, s.storeError("list elections", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		var criteria string
		err := rows.Scan(&e.ID, &e.Name, &e.StartAt, &e.EndAt, &e.Status,
			&e.CandidateListID, &criteria, &e.ResultID, &e.CreatedAt)
		if err != nil {
			return nil, s.storeError("scan election", err)
		}
		e.Criteria = unmarshalCriteria(criteria)
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// candidateListSize returns the member count of a candidate list, or
// NotFound if the list does not exist.
func (s *Service) candidateListSize(listID string) (int, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM candidate_list WHERE id = $1)
	`, listID).Scan(&exists)
	if err != nil {
		return 0, s.storeError("check candidate list", err)
	}
	if !exists {
		return 0, Errf(KindNotFound, "candidate list not found")
	}

	var count int
	err = s.db.QueryRow(`
		SELECT COUNT(*) FROM candidate_list_member WHERE list_id = $1
	`, listID).Scan(&count)
	if err != nil {
		return 0, s.storeError("count candidates", err)
	}
	return count, nil
}

func (s *Service) validateElection(name string, start, end time.Time, listID *string, criteria models.Criteria) error {
	if name == "" {
		return Errf(KindValidation, "name is required")
	}
	if !start.Before(end) {
		return Errf(KindValidation, "start date must be before end date")
	}
	if listID != nil {
		count, err := s.candidateListSize(*listID)
		if err != nil {
			return err
		}
		if count == 0 {
			return Errf(KindValidation, "candidate list has no candidates")
		}
	}
	return ValidateCriteria(criteria)
}

// CreateElection opens a new election.
func (s *Service) CreateElection(req models.CreateElectionRequest) (models.Election, error) {
	criteria := models.Criteria{}
	if req.Criteria != nil {
		criteria = *req.Criteria
	}
	if err := s.validateElection(req.Name, req.StartAt, req.EndAt, req.CandidateListID, criteria); err != nil {
		return models.Election{}, err
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return models.Election{}, s.storeError("generate election id", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO election (id, name, start_at, end_at, status, candidate_list_id, criteria, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, req.Name, req.StartAt, req.EndAt, models.StatusOpen,
		req.CandidateListID, marshalCriteria(criteria), time.Now())
	if err != nil {
		return models.Election{}, s.storeError("insert election", err)
	}

	s.logger.Info("election created", "election_id", id, "name", req.Name)
	return s.GetElection(id)
}

// UpdateElection applies a partial edit with the same validation as create.
func (s *Service) UpdateElection(id string, req models.UpdateElectionRequest) (models.Election, error) {
	e, err := s.GetElection(id)
	if err != nil {
		return models.Election{}, err
	}

	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.StartAt != nil {
		e.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		e.EndAt = *req.EndAt
	}
	if req.CandidateListID != nil {
		e.CandidateListID = req.CandidateListID
	}
	if req.Criteria != nil {
		e.Criteria = *req.Criteria
	}
	if err := s.validateElection(e.Name, e.StartAt, e.EndAt, e.CandidateListID, e.Criteria); err != nil {
		return models.Election{}, err
	}

	_, err = s.db.Exec(`
		UPDATE election
		SET name = $1, start_at = $2, end_at = $3, candidate_list_id = $4, criteria = $5
		WHERE id = $6
	`, e.Name, e.StartAt, e.EndAt, e.CandidateListID, marshalCriteria(e.Criteria), id)
	if err != nil {
		return models.Election{}, s.storeError("update election", err)
	}

	s.logger.Info("election updated", "election_id", id)
	return s.GetElection(id)
}

// DeleteElection removes the election; its votes cascade.
func (s *Service) DeleteElection(id string) error {
	res, err := s.db.Exec(`DELETE FROM election WHERE id = $1`, id)
	if err != nil {
		return s.storeError("delete election", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.storeError("delete election", err)
	}
	if n == 0 {
		return Errf(KindNotFound, "election not found")
	}
	s.logger.Info("election deleted", "election_id", id)
	return nil
}

// CloseExpired closes every election whose end time has passed and that is
// still marked open. Idempotent: the open -> closed transition is
// monotonic and a single atomic statement.
func (s *Service) CloseExpired(now time.Time) (int, error) {
	res, err := s.db.Exec(`
		UPDATE election SET status = $1 WHERE status = $2 AND end_at < $3
	`, models.StatusClosed, models.StatusOpen, now)
	if err != nil {
		return 0, s.storeError("close expired elections", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.storeError("close expired elections", err)
	}
	if n > 0 {
		s.logger.Info("closed expired elections", "count", n)
	}
	return int(n), nil
}
