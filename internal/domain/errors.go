package domain

import "errors"

// Sentinel errors shared across repositories and services. Delivery maps
// these onto HTTP status codes; everything else is treated as an internal
// server error.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// Registration eligibility failures. The repository returns these from
	// the transactional register path; the evaluator returns the matching
	// reasons from its advisory pre-check.
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrEventInactive     = errors.New("event is not active")
	ErrEventPassed       = errors.New("event has already started or passed")
	ErrEventFull         = errors.New("event is full")

	// Cancellation window policy.
	ErrEventAlreadyStarted = errors.New("cannot cancel registration for event that has already started")
)
