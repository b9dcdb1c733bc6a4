// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"strings"
	"time"

	"campusvote/auth"
	"campusvote/models"
)

// Outcome of an UpsertVoter call.
const (
	UpsertCreated = "created"
	UpsertUpdated = "updated"
	UpsertSkipped = "skipped"
)

// ImportRow is one row of a bulk voter import, as handed over by the
// import collaborator.
type ImportRow struct {
	RegNumber    string
	Name         string
	Username     string
	AcademicYear string
	ClassYear    int
	Program      string
	Activities   []string
	SportType    *string
}

// ValidRegNumber reports whether s is exactly four digits.
func ValidRegNumber(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *Service) scanVoter(row *sql.Row) (models.Voter, error) {
	var v models.Voter
	err := row.Scan(
		&v.ID, &v.RegNumber, &v.Name, &v.Username, &v.PasswordHash,
		&v.AcademicYear, &v.ClassYear, &v.Program, &v.SportType,
		&v.FingerprintID, &v.IsFirstLogin, &v.IsAdmin, &v.CreatedAt,
	)
	return v, err
}

const voterColumns = `id, reg_number, name, username, password_hash,
		academic_year, class_year, program, sport_type,
		fingerprint_id, is_first_login, is_admin, created_at`

// GetVoter loads one voter with activities.
func (s *Service) GetVoter(id string) (models.Voter, error) {
	v, err := s.scanVoter(s.db.QueryRow(`
		SELECT `+voterColumns+` FROM voter WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return models.Voter{}, Errf(KindNotFound, "voter not found")
	}
	if err != nil {
		return models.Voter{}, s.storeError("get voter", err)
	}
	if v.Activities, err = s.voterActivities(v.ID); err != nil {
		return models.Voter{}, err
	}
	return v, nil
}

// GetVoterByUsername loads one voter by login name.
func (s *Service) GetVoterByUsername(username string) (models.Voter, error) {
	v, err := s.scanVoter(s.db.QueryRow(`
		SELECT `+voterColumns+` FROM voter WHERE username = $1
	`, username))
	if err == sql.ErrNoRows {
		return models.Voter{}, Errf(KindNotFound, "voter not found")
	}
	if err != nil {
		return models.Voter{}, s.storeError("get voter by username", err)
	}
	if v.Activities, err = s.voterActivities(v.ID); err != nil {
		return models.Voter{}, err
	}
	return v, nil
}

// ListVoters enumerates voters, optionally restricted to one academic year.
func (s *Service) ListVoters(academicYear string) ([]models.Voter, error) {
	query := `SELECT ` + voterColumns + ` FROM voter ORDER BY name`
	args := []any{}
	if academicYear != "" {
		query = `SELECT ` + voterColumns + ` FROM voter WHERE academic_year = $1 ORDER BY name`
		args = append(args, academicYear)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, s.storeError("list voters", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		err := rows.Scan(
			&v.ID, &v.RegNumber, &v.Name, &v.Username, &v.PasswordHash,
			&v.AcademicYear, &v.ClassYear, &v.Program, &v.SportType,
			&v.FingerprintID, &v.IsFirstLogin, &v.IsAdmin, &v.CreatedAt,
		)
		if err != nil {
			return nil, s.storeError("scan voter", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeError("list voters", err)
	}

	activityMap, err := s.allActivities()
	if err != nil {
		return nil, err
	}
	for i := range voters {
		voters[i].Activities = activityMap[voters[i].ID]
	}
	return voters, nil
}

func (s *Service) voterActivities(voterID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT activity FROM voter_activity WHERE voter_id = $1 ORDER BY activity
	`, voterID)
	if err != nil {
		return nil, s.storeError("load activities", err)
	}
	defer rows.Close()

	activities := []string{}
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, s.storeError("scan activity", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *Service) allActivities() (map[string][]string, error) {
	rows, err := s.db.Query(`SELECT voter_id, activity FROM voter_activity ORDER BY activity`)
	if err != nil {
		return nil, s.storeError("load activities", err)
	}
	defer rows.Close()

	m := map[string][]string{}
	for rows.Next() {
		var voterID, activity string
		if err := rows.Scan(&voterID, &activity); err != nil {
			return nil, s.storeError("scan activity", err)
		}
		m[voterID] = append(m[voterID], activity)
	}
	return m, rows.Err()
}

func validateVoterAttributes(classYear int, program string, activities []string, sportType *string) error {
	if !models.ValidClassYear(classYear) {
		return Errf(KindValidation, "class_year must be between 1 and 5")
	}
	if !models.ValidProgram(program) {
		return Errf(KindValidation, "unknown program: "+program)
	}
	for _, a := range activities {
		if !models.ValidActivity(a) {
			return Errf(KindValidation, "unknown activity: "+a)
		}
	}
	if sportType != nil && !models.ValidSportType(*sportType) {
		return Errf(KindValidation, "unknown sport type: "+*sportType)
	}
	return nil
}

// CreateVoter registers a single voter.
func (s *Service) CreateVoter(req models.CreateVoterRequest) (models.Voter, error) {
	if !ValidRegNumber(req.RegNumber) {
		return models.Voter{}, Errf(KindValidation, "reg_number must be exactly 4 digits")
	}
	if req.Name == "" || req.Username == "" {
		return models.Voter{}, Errf(KindValidation, "name and username are required")
	}
	if err := validateVoterAttributes(req.ClassYear, req.Program, req.Activities, req.SportType); err != nil {
		return models.Voter{}, err
	}

	password := req.Password
	if password == "" {
		// Imported and admin-created voters sign in with their
		// registration number until first login.
		password = req.RegNumber
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Voter{}, s.storeError("hash password", err)
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return models.Voter{}, s.storeError("generate voter id", err)
	}

	now := time.Now()
	_, err = s.db.Exec(`
		INSERT INTO voter (id, reg_number, name, username, password_hash,
			academic_year, class_year, program, sport_type,
			is_first_login, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, $11)
	`, id, req.RegNumber, req.Name, req.Username, hash,
		req.AcademicYear, req.ClassYear, req.Program, req.SportType,
		req.IsAdmin, now)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Voter{}, Errf(KindConflict, "reg_number or username already registered")
		}
		return models.Voter{}, s.storeError("insert voter", err)
	}

	if err := s.setActivities(id, req.Activities); err != nil {
		return models.Voter{}, err
	}

	s.logger.Info("voter created", "voter_id", id, "reg_number", req.RegNumber)
	return s.GetVoter(id)
}

// UpdateVoter applies a partial admin edit.
func (s *Service) UpdateVoter(id string, req models.UpdateVoterRequest) (models.Voter, error) {
	v, err := s.GetVoter(id)
	if err != nil {
		return models.Voter{}, err
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.AcademicYear != nil {
		v.AcademicYear = *req.AcademicYear
	}
	if req.ClassYear != nil {
		v.ClassYear = *req.ClassYear
	}
	if req.Program != nil {
		v.Program = *req.Program
	}
	if req.Activities != nil {
		v.Activities = *req.Activities
	}
	if req.SportType != nil {
		if *req.SportType == "" {
			v.SportType = nil
		} else {
			v.SportType = req.SportType
		}
	}
	if v.Name == "" {
		return models.Voter{}, Errf(KindValidation, "name cannot be empty")
	}
	if err := validateVoterAttributes(v.ClassYear, v.Program, v.Activities, v.SportType); err != nil {
		return models.Voter{}, err
	}

	_, err = s.db.Exec(`
		UPDATE voter
		SET name = $1, academic_year = $2, class_year = $3, program = $4, sport_type = $5
		WHERE id = $6
	`, v.Name, v.AcademicYear, v.ClassYear, v.Program, v.SportType, id)
	if err != nil {
		return models.Voter{}, s.storeError("update voter", err)
	}

	if req.Activities != nil {
		if err := s.setActivities(id, v.Activities); err != nil {
			return models.Voter{}, err
		}
	}

	s.logger.Info("voter updated", "voter_id", id)
	return s.GetVoter(id)
}

// DeleteVoter removes a voter; votes cast and received cascade.
func (s *Service) DeleteVoter(id string) error {
	res, err := s.db.Exec(`DELETE FROM voter WHERE id = $1`, id)
	if err != nil {
		return s.storeError("delete voter", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.storeError("delete voter", err)
	}
	if n == 0 {
		return Errf(KindNotFound, "voter not found")
	}
	s.logger.Info("voter deleted", "voter_id", id)
	return nil
}

func (s *Service) setActivities(voterID string, activities []string) error {
	if _, err := s.db.Exec(`DELETE FROM voter_activity WHERE voter_id = $1`, voterID); err != nil {
		return s.storeError("clear activities", err)
	}
	for _, a := range activities {
		if _, err := s.db.Exec(`
			INSERT INTO voter_activity (voter_id, activity) VALUES ($1, $2)
		`, voterID, a); err != nil {
			return s.storeError("insert activity", err)
		}
	}
	return nil
}

// UpsertVoter applies one bulk-import row: update the voter matching the
// registration number, or create a new one. Rows with malformed
// registration numbers or colliding usernames are skipped with a reason
// rather than failing the batch.
func (s *Service) UpsertVoter(row ImportRow) (outcome string, reason string, err error) {
	if !ValidRegNumber(row.RegNumber) {
		return UpsertSkipped, "reg_number is not 4 digits", nil
	}
	if row.Username == "" || row.Name == "" {
		return UpsertSkipped, "name and username are required", nil
	}

	// Normalize activity tags: case-fold and drop unknown values.
	activities := []string{}
	for _, a := range row.Activities {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" && models.ValidActivity(a) {
			activities = append(activities, a)
		}
	}
	sportType := row.SportType
	if sportType != nil {
		normalized := strings.ToUpper(strings.TrimSpace(*sportType))
		if normalized == "" || !models.ValidSportType(normalized) {
			sportType = nil
		} else {
			sportType = &normalized
		}
	}
	if err := validateVoterAttributes(row.ClassYear, row.Program, activities, sportType); err != nil {
		return UpsertSkipped, err.Error(), nil
	}

	var existingID string
	err = s.db.QueryRow(`SELECT id FROM voter WHERE reg_number = $1`, row.RegNumber).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return "", "", s.storeError("lookup voter", err)
	}

	if err == nil {
		// Re-imported voters start over: first-login flag resets.
		_, err = s.db.Exec(`
			UPDATE voter
			SET name = $1, username = $2, academic_year = $3, class_year = $4,
			    program = $5, sport_type = $6, is_first_login = TRUE
			WHERE id = $7
		`, row.Name, row.Username, row.AcademicYear, row.ClassYear,
			row.Program, sportType, existingID)
		if err != nil {
			if isUniqueViolation(err) {
				return UpsertSkipped, "username already taken", nil
			}
			return "", "", s.storeError("update voter", err)
		}
		if err := s.setActivities(existingID, activities); err != nil {
			return "", "", err
		}
		return UpsertUpdated, "", nil
	}

	var usernameTaken bool
	err = s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM voter WHERE username = $1)
	`, row.Username).Scan(&usernameTaken)
	if err != nil {
		return "", "", s.storeError("check username", err)
	}
	if usernameTaken {
		return UpsertSkipped, "username already taken", nil
	}

	_, err = s.CreateVoter(models.CreateVoterRequest{
		RegNumber:    row.RegNumber,
		Name:         row.Name,
		Username:     row.Username,
		AcademicYear: row.AcademicYear,
		ClassYear:    row.ClassYear,
		Program:      row.Program,
		Activities:   activities,
		SportType:    sportType,
	})
	if err != nil {
		if KindOf(err) == KindConflict {
			return UpsertSkipped, "username already taken", nil
		}
		return "", "", err
	}
	return UpsertCreated, "", nil
}
