package services

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrSlotUnavailable     = errors.New("time slot is no longer available")
	ErrDuplicateSettlement = errors.New("settlement already recorded for this transaction")
)

// ValidationError covers malformed or missing input caught before any state
// transition is attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IllegalStateError means the requested transition is not permitted from the
// booking's current status/session_status combination.
type IllegalStateError struct {
	Reason string
}

func (e *IllegalStateError) Error() string {
	return e.Reason
}

// ExpiredWindowError is the one illegal-state case callers must distinguish:
// the settlement window closed while the operator's screen was stale, so the
// UI should refresh instead of showing a generic failure.
type ExpiredWindowError struct {
	Reason string
}

func (e *ExpiredWindowError) Error() string {
	return e.Reason
}
