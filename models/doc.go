// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types, enums, and HTTP request/response
types for the campusvote API.

# Domain Types

  - Voter: a registered participant, identified by a unique 4-digit
    registration number. Voters carry classification attributes (class
    year, program, activity tags, optional sport subtype) used by
    eligibility criteria. A voter may also appear as a candidate.
  - CandidateList: a named set of voters eligible to receive votes.
  - Election: a named voting window with a status (open/closed), an
    attached candidate list, eligibility criteria, and optionally a
    published result.
  - Vote: one voter's ballot in one election. At most one vote exists
    per (voter, election) pair.
  - Result: the frozen set of valid votes counted at publication time.

# Enums

Classification attributes are closed enums with display labels:

	class year: 1..5 (L1, L2, L3, M1, M2)
	program:    INFO, SA, ECO, LEA, ST, DROIT
	activity:   DANSE, SPORT, CHANT, DESSIN, SLAM
	sport type: FOOT, BASKET, VOLLEY, PET

Valid* functions validate inputs at the boundary; downstream code assumes
validated values.

# Criteria

Criteria is a fixed structure of four optional filters. It is validated
once on election create/update and stored as JSON on the election row;
see the election package for evaluation semantics.
*/
package models
