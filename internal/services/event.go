package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"communityreg/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, registrationRepo domain.RegistrationRepository) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *eventService) Create(ctx context.Context, title string, description *string, maxCapacity int, startTime time.Time) (*domain.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	if maxCapacity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if startTime.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	event := domain.NewEvent(title, description, maxCapacity, startTime, time.Now())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListWithCounts(ctx context.Context) ([]*domain.EventWithCount, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	// One count query per event. The catalog is small; we can batch this
	// into a GROUP BY if it ever shows up in profiles.
	result := make([]*domain.EventWithCount, 0, len(events))
	for _, event := range events {
		count, err := s.registrationRepo.CountByEventID(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("count registrations for event %d: %w", event.ID, err)
		}
		result = append(result, &domain.EventWithCount{
			Event:  event,
			Count:  count,
			IsFull: count >= event.MaxCapacity,
		})
	}
	return result, nil
}
