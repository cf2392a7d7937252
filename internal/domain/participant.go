package domain

import (
	"context"
	"strings"
	"time"
)

// Participant represents a real person who can attend events (a senior).
// It is keyed by NRIC and may exist with no owning user (a shadow profile
// created by a walk-in or guest registration) or be linked to exactly one
// caregiver account at a time.
// swagger:model Participant
type Participant struct {
	ID        int64     `json:"id"`
	NRIC      string    `json:"nric"`
	FullName  string    `json:"full_name"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewParticipant returns a new Participant. ID is set by the repository on create.
func NewParticipant(nric, fullName string, ownerID *int64, createdAt time.Time) *Participant {
	return &Participant{
		NRIC:      nric,
		FullName:  fullName,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
	}
}

// NormalizeNRIC trims surrounding whitespace and upper-cases the identifier.
// All storage and lookup goes through the normalized form; it is the sole
// deduplication key for participants.
func NormalizeNRIC(nric string) string {
	return strings.ToUpper(strings.TrimSpace(nric))
}

// LinkOutcome describes the result of linking a participant to a caregiver.
type LinkOutcome string

const (
	LinkAlreadyLinkedToCaller LinkOutcome = "already_linked_to_caller"
	LinkAlreadyLinkedToOther  LinkOutcome = "already_linked_to_other"
	LinkLinkedExisting        LinkOutcome = "linked_existing"
	LinkCreatedAndLinked      LinkOutcome = "created_and_linked"
)

// UnlinkOutcome describes the result of unlinking a participant.
type UnlinkOutcome string

const (
	UnlinkNotFound      UnlinkOutcome = "not_found"
	UnlinkNotAuthorized UnlinkOutcome = "not_authorized"
	Unlinked            UnlinkOutcome = "unlinked"
)

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	// Create inserts the participant. A unique violation on the NRIC index
	// is returned as ErrDuplicateNRIC.
	Create(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id int64) (*Participant, error)
	GetByNRIC(ctx context.Context, nric string) (*Participant, error)
	// SetOwner updates the owning user; a nil ownerID clears the link.
	SetOwner(ctx context.Context, id int64, ownerID *int64) error
	// FirstByOwnerID returns the owner's participant with the lowest id.
	FirstByOwnerID(ctx context.Context, ownerID int64) (*Participant, error)
	// ListByOwnerID returns the owner's participants ordered by full name.
	ListByOwnerID(ctx context.Context, ownerID int64) ([]*Participant, error)
}

// ParticipantService resolves external identities to durable participant
// records and manages the caregiver link.
type ParticipantService interface {
	// ResolveOrCreate maps a normalized NRIC to a participant, creating one
	// if absent. An existing record is returned unchanged: the name and
	// owner arguments apply only on create.
	ResolveOrCreate(ctx context.Context, nric, fullName string, ownerID *int64) (*Participant, error)
	// Link attaches the participant with this NRIC to the owner. The
	// returned participant is nil for the already_linked_to_other outcome.
	Link(ctx context.Context, nric, fullName string, ownerID int64) (*Participant, LinkOutcome, error)
	// Unlink clears the owner. Only the current owner may unlink; the
	// participant row and its registrations are retained.
	Unlink(ctx context.Context, participantID, ownerID int64) (UnlinkOutcome, error)
	FindPrimaryForOwner(ctx context.Context, ownerID int64) (*Participant, error)
	FindAllForOwner(ctx context.Context, ownerID int64) ([]*Participant, error)
}
