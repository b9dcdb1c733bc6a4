// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"time"

	"campusvote/auth"
	"campusvote/models"
)

// CreateCandidateList creates a named candidate set. Candidates are
// voters; the set must be non-empty.
func (s *Service) CreateCandidateList(req models.CreateCandidateListRequest) (models.CandidateList, error) {
	if req.Name == "" {
		return models.CandidateList{}, Errf(KindValidation, "name is required")
	}
	if len(req.CandidateIDs) == 0 {
		return models.CandidateList{}, Errf(KindValidation, "at least one candidate is required")
	}
	for _, voterID := range req.CandidateIDs {
		if _, err := s.GetVoter(voterID); err != nil {
			return models.CandidateList{}, err
		}
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return models.CandidateList{}, s.storeError("generate list id", err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO candidate_list (id, name, created_at) VALUES ($1, $2, $3)
	`, id, req.Name, time.Now()); err != nil {
		return models.CandidateList{}, s.storeError("insert candidate list", err)
	}
	for _, voterID := range req.CandidateIDs {
		if _, err := s.db.Exec(`
			INSERT INTO candidate_list_member (list_id, voter_id) VALUES ($1, $2)
		`, id, voterID); err != nil {
			if isUniqueViolation(err) {
				continue // duplicate candidate id in request
			}
			return models.CandidateList{}, s.storeError("insert list member", err)
		}
	}

	s.logger.Info("candidate list created", "list_id", id, "name", req.Name,
		"candidates", len(req.CandidateIDs))
	return s.GetCandidateList(id)
}

// GetCandidateList loads a list with its candidates.
func (s *Service) GetCandidateList(id string) (models.CandidateList, error) {
	var list models.CandidateList
	err := s.db.QueryRow(`
		SELECT id, name FROM candidate_list WHERE id = $1
	`, id).Scan(&list.ID, &list.Name)
	if err != nil {
		return models.CandidateList{}, Errf(KindNotFound, "candidate list not found")
	}
	list.Candidates, err = s.Candidates(id)
	if err != nil {
		return models.CandidateList{}, err
	}
	return list, nil
}

// ListCandidateLists enumerates all lists with their candidates.
func (s *Service) ListCandidateLists() ([]models.CandidateList, error) {
	rows, err := s.db.Query(`SELECT id, name FROM candidate_list ORDER BY name`)
	if err != nil {
		return nil, s.storeError("list candidate lists", err)
	}
	defer rows.Close()

	lists := []models.CandidateList{}
	for rows.Next() {
		var list models.CandidateList
		if err := rows.Scan(&list.ID, &list.Name); err != nil {
			return nil, s.storeError("scan candidate list", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeError("list candidate lists", err)
	}

	for i := range lists {
		if lists[i].Candidates, err = s.Candidates(lists[i].ID); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

// Candidates returns the voters on a candidate list.
func (s *Service) Candidates(listID string) ([]models.Voter, error) {
	rows, err := s.db.Query(`
		SELECT v.id, v.reg_number, v.name, v.username, v.password_hash,
		       v.academic_year, v.class_year, v.program, v.sport_type,
		       v.fingerprint_id, v.is_first_login, v.is_admin, v.created_at
		FROM candidate_list_member m
		JOIN voter v ON v.id = m.voter_id
		WHERE m.list_id = $1
		ORDER BY v.name
	`, listID)
	if err != nil {
		return nil, s.storeError("load candidates", err)
	}
	defer rows.Close()

	candidates := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		err := rows.Scan(
			&v.ID, &v.RegNumber, &v.Name, &v.Username, &v.PasswordHash,
			&v.AcademicYear, &v.ClassYear, &v.Program, &v.SportType,
			&v.FingerprintID, &v.IsFirstLogin, &v.IsAdmin, &v.CreatedAt,
		)
		if err != nil {
			return nil, s.storeError("scan candidate", err)
		}
		candidates = append(candidates, v)
	}
	return candidates, rows.Err()
}
