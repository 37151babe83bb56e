package services

import (
	"errors"
	"fmt"
)

// Validation errors surfaced before any provider call is made.
var (
	// ErrArrivalNotAfterDeparture reports a latest-arrival bound that does not
	// come strictly after the earliest-departure bound.
	ErrArrivalNotAfterDeparture = errors.New("latest arrival must be after earliest departure")

	// ErrDepartureInPast reports an earliest-departure instant more than the
	// allowed tolerance behind the current time.
	ErrDepartureInPast = errors.New("earliest departure is in the past")

	// ErrWindowTooShort reports an effective search window below the
	// configured minimum.
	ErrWindowTooShort = errors.New("departure window is too short")
)

// ErrNoViableDeparture reports that every sampled departure was estimated
// successfully but none would arrive by the latest-arrival deadline.
var ErrNoViableDeparture = errors.New("no viable departure options: every sampled departure arrives after the deadline")

// AllSamplesFailedError reports that every estimator call in the search loop
// failed. It retains the failure count and the last underlying error for
// caller-facing messaging.
type AllSamplesFailedError struct {
	Count   int
	LastErr error
}

func (e *AllSamplesFailedError) Error() string {
	return fmt.Sprintf("all %d travel time samples failed, last error: %v", e.Count, e.LastErr)
}

func (e *AllSamplesFailedError) Unwrap() error {
	return e.LastErr
}
