// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Domain types

type Voter struct {
	ID            string    `json:"id"`
	RegNumber     string    `json:"reg_number"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	AcademicYear  string    `json:"academic_year"`
	ClassYear     int       `json:"class_year"`
	Program       string    `json:"program"`
	Activities    []string  `json:"activities"`
	SportType     *string   `json:"sport_type,omitempty"`
	FingerprintID *string   `json:"fingerprint_id,omitempty"`
	IsFirstLogin  bool      `json:"is_first_login"`
	IsAdmin       bool      `json:"is_admin"`
	PasswordHash  string    `json:"-"` // Never expose in JSON
	CreatedAt     time.Time `json:"created_at"`
}

// Criteria restricts which voters may cast a ballot in an election.
// An empty filter means no restriction on that dimension; all present
// filters must pass, and within a filter membership is enough.
type Criteria struct {
	Classes    []int    `json:"classes,omitempty"`
	Programs   []string `json:"programs,omitempty"`
	Activities []string `json:"activities,omitempty"`
	SportTypes []string `json:"sport_types,omitempty"`
}

type CandidateList struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Candidates []Voter `json:"candidates"`
}

type Election struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Status          string    `json:"status"`
	CandidateListID *string   `json:"candidate_list_id,omitempty"`
	Criteria        Criteria  `json:"criteria"`
	ResultID        *string   `json:"result_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	Valid       bool      `json:"valid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Result struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type FirstLoginRequest struct {
	NewPassword string `json:"new_password"`
}

type CreateVoterRequest struct {
	RegNumber    string   `json:"reg_number"`
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	AcademicYear string   `json:"academic_year"`
	ClassYear    int      `json:"class_year"`
	Program      string   `json:"program"`
	Activities   []string `json:"activities"`
	SportType    *string  `json:"sport_type"`
	IsAdmin      bool     `json:"is_admin"`
}

type UpdateVoterRequest struct {
	Name         *string   `json:"name"`
	AcademicYear *string   `json:"academic_year"`
	ClassYear    *int      `json:"class_year"`
	Program      *string   `json:"program"`
	Activities   *[]string `json:"activities"`
	SportType    *string   `json:"sport_type"`
}

type CreateCandidateListRequest struct {
	Name         string   `json:"name"`
	CandidateIDs []string `json:"candidate_ids"`
}

type CreateElectionRequest struct {
	Name            string    `json:"name"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	CandidateListID *string   `json:"candidate_list_id"`
	Criteria        *Criteria `json:"criteria"`
}

type UpdateElectionRequest struct {
	Name            *string    `json:"name"`
	StartAt         *time.Time `json:"start_at"`
	EndAt           *time.Time `json:"end_at"`
	CandidateListID *string    `json:"candidate_list_id"`
	Criteria        *Criteria  `json:"criteria"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type LoginResponse struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	VoterID      string `json:"voter_id"`
	IsFirstLogin bool   `json:"is_first_login"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CastVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

type ImportSummaryResponse struct {
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Message string `json:"message"`
}

// CandidateCount is one row of a tally: a candidate and their valid votes.
type CandidateCount struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   int    `json:"vote_count"`
}

// ElectionSummary is the results view for one election.
type ElectionSummary struct {
	Election       Election         `json:"election"`
	Results        map[string]int   `json:"results"`
	Candidates     []CandidateCount `json:"candidates"`
	TotalEligible  int              `json:"total_eligible_voters"`
	VotersWhoVoted int              `json:"voters_who_voted"`
	IsPublished    bool             `json:"is_published"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
