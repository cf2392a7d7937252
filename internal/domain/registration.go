package domain

import (
	"context"
	"time"
)

// Source is the channel a registration came in through.
type Source string

const (
	SourceOnline Source = "online"
	SourceWalkIn Source = "walkin"
)

// Valid reports whether s is a known registration source.
func (s Source) Valid() bool {
	return s == SourceOnline || s == SourceWalkIn
}

// Registration joins one participant to one event at one point in time.
// Registrations are never mutated or deleted.
// swagger:model Registration
type Registration struct {
	ID            int64     `json:"id"`
	EventID       int64     `json:"event_id"`
	ParticipantID int64     `json:"participant_id"`
	Source        Source    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewRegistration returns a new Registration. ID is set by the repository on create.
func NewRegistration(eventID, participantID int64, source Source, createdAt time.Time) *Registration {
	return &Registration{
		EventID:       eventID,
		ParticipantID: participantID,
		Source:        source,
		CreatedAt:     createdAt,
	}
}

// RegistrationDetail bundles a registration with its participant and event
// so list and export views need no additional lookups.
type RegistrationDetail struct {
	Registration *Registration `json:"registration"`
	Participant  *Participant  `json:"participant"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create inserts the registration. A unique violation on
	// (event_id, participant_id) is returned as ErrAlreadyRegistered.
	Create(ctx context.Context, reg *Registration) error
	CountByEventID(ctx context.Context, eventID int64) (int, error)
	// ListDetailed returns registrations newest first with participant and
	// event eagerly joined, optionally filtered to one event.
	ListDetailed(ctx context.Context, eventID *int64) ([]*RegistrationDetail, error)
	// ListEventIDsByOwnerID returns the distinct event ids registered by any
	// participant owned by the given user.
	ListEventIDsByOwnerID(ctx context.Context, ownerID int64) ([]int64, error)
}

// RegistrationService is the capacity-bounded, duplicate-safe registration
// pipeline plus the read-side lookups it powers.
type RegistrationService interface {
	// Register checks capacity and inserts a registration. Failure outcomes
	// are ErrNotFound (event or participant absent), ErrEventFull, and
	// ErrAlreadyRegistered; anything else is a persistence failure.
	Register(ctx context.Context, eventID, participantID int64, source Source) (*Registration, error)
	ListRegistrations(ctx context.Context, eventID *int64) ([]*RegistrationDetail, error)
	// RegisteredEventIDsForOwner unions registered event ids across all
	// participants owned by the given user.
	RegisteredEventIDsForOwner(ctx context.Context, ownerID int64) (map[int64]struct{}, error)
}
