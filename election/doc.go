// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the core of the election backend: the voter
directory, the eligibility evaluator, the election lifecycle, the ballot
store, and the result aggregator.

# Service

All operations hang off a Service built with an explicit database handle
and logger:

	svc := election.NewService(dbConn, logger)

# Eligibility

IsAllowed is a pure function from (voter, criteria) to bool. Every filter
dimension (class year, program, activities, sport type) passes when empty
or matched; all present filters must pass. The same evaluator serves
real-time vote checks and bulk eligible-voter scans.

# Voting

CastVote enforces, in order: election open, voter eligible, not already
voted, candidate on the list. The last two checks and the insert share a
transaction, and the unique (election, voter) index resolves concurrent
casts; the loser of a race sees AlreadyVoted, never two rows.

# Results

Publish freezes valid votes of currently-eligible voters into a Result
and forces the election closed. Tally and Summarize compute per-candidate
counts; Summarize additionally reports eligible-voter totals and refuses
non-privileged access before publication. Reads are not linearizable with
concurrent casts; a tally during a vote burst may trail by the in-flight
votes.

# Errors

Every failure carries a Kind from the fixed taxonomy (validation,
not_eligible, already_voted, election_closed, election_still_open,
invalid_candidate, not_found, not_permitted, not_published, conflict,
store_unavailable). The core returns these verbatim; the HTTP layer maps
them to status codes.
*/
package election
