package domain

import (
	"context"
	"time"
)

// Event represents a community activity instance. Events are immutable once
// published; there is no update or cancel flow.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	MaxCapacity int       `json:"max_capacity"`
	StartTime   time.Time `json:"start_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, description *string, maxCapacity int, startTime, createdAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		MaxCapacity: maxCapacity,
		StartTime:   startTime,
		CreatedAt:   createdAt,
	}
}

// EventWithCount pairs an event with its live registration count.
type EventWithCount struct {
	Event  *Event `json:"event"`
	Count  int    `json:"count"`
	IsFull bool   `json:"is_full"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
}

// EventService defines event publishing and the public catalog view.
type EventService interface {
	Create(ctx context.Context, title string, description *string, maxCapacity int, startTime time.Time) (*Event, error)
	// ListWithCounts returns every event with its live count and fullness
	// flag. No caching: counts are correct as of call time.
	ListWithCounts(ctx context.Context) ([]*EventWithCount, error)
}
