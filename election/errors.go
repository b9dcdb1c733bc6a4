// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "errors"

// Kind is a machine-readable error category. The HTTP layer maps kinds to
// status codes; the core never maps or swallows them.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotEligible       Kind = "not_eligible"
	KindAlreadyVoted      Kind = "already_voted"
	KindElectionClosed    Kind = "election_closed"
	KindElectionStillOpen Kind = "election_still_open"
	KindInvalidCandidate  Kind = "invalid_candidate"
	KindNotFound          Kind = "not_found"
	KindNotPermitted      Kind = "not_permitted"
	KindNotPublished      Kind = "not_published"
	KindConflict          Kind = "conflict"
	KindStoreUnavailable  Kind = "store_unavailable"
)

// Error carries a kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Errf builds an *Error of the given kind.
func Errf(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind from an error chain, or "" if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
