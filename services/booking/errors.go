package booking

import "errors"

var (
	// ErrNotAuthenticated aborts a submission before any write when no user
	// can be resolved.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSubmitInProgress rejects a duplicate pay action while a submission
	// is already in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")

	// ErrAlreadyBooked rejects resubmission after this flow instance has
	// already produced a booking.
	ErrAlreadyBooked = errors.New("booking already completed")
)
