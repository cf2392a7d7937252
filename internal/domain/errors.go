package domain

import "errors"

// Sentinel errors shared by services and repositories. Repositories translate
// driver-level failures (sql.ErrNoRows, unique-violation codes) into these;
// services and controllers match them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEventFull reports a failed capacity check. No row is written.
	ErrEventFull = errors.New("event is fully booked")

	// ErrAlreadyRegistered is the translation of a unique violation on
	// (event_id, participant_id). It is an expected outcome of duplicate or
	// concurrent submissions, never a fault.
	ErrAlreadyRegistered = errors.New("participant is already registered for this event")

	ErrDuplicateNRIC  = errors.New("nric already exists")
	ErrDuplicateEmail = errors.New("email already in use")
)
