package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"communityreg/internal/domain"
)

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Now().Add(72 * time.Hour)
	desc := "Gentle stretches for seniors"

	tests := []struct {
		name     string
		title    string
		capacity int
		start    time.Time
		wantErr  error
	}{
		{name: "success", title: "Morning Yoga Session", capacity: 12, start: start},
		{name: "blank title", title: "   ", capacity: 12, start: start, wantErr: domain.ErrInvalidInput},
		{name: "zero capacity", title: "Morning Yoga Session", capacity: 0, start: start, wantErr: domain.ErrInvalidInput},
		{name: "negative capacity", title: "Morning Yoga Session", capacity: -3, start: start, wantErr: domain.ErrInvalidInput},
		{name: "zero start time", title: "Morning Yoga Session", capacity: 12, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockEventRepository()
			svc := NewEventService(repo, &mockRegistrationRepository{})

			event, err := svc.Create(ctx, tt.title, &desc, tt.capacity, tt.start)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event.ID == 0 {
				t.Fatal("expected event id set")
			}
			if event.Title != "Morning Yoga Session" {
				t.Fatalf("unexpected title %q", event.Title)
			}
		})
	}
}

func TestEventService_ListWithCounts(t *testing.T) {
	ctx := context.Background()

	eventRepo := newMockEventRepository()
	yoga := eventRepo.add(&domain.Event{Title: "Morning Yoga Session", MaxCapacity: 2, StartTime: time.Now().Add(24 * time.Hour)})
	mahjong := eventRepo.add(&domain.Event{Title: "Mahjong Social", MaxCapacity: 16, StartTime: time.Now().Add(48 * time.Hour)})

	regRepo := &mockRegistrationRepository{
		registrations: []*domain.Registration{
			{ID: 1, EventID: yoga.ID, ParticipantID: 1, Source: domain.SourceOnline},
			{ID: 2, EventID: yoga.ID, ParticipantID: 2, Source: domain.SourceWalkIn},
			{ID: 3, EventID: mahjong.ID, ParticipantID: 1, Source: domain.SourceOnline},
		},
	}

	svc := NewEventService(eventRepo, regRepo)
	got, err := svc.ListWithCounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}

	if got[0].Event.ID != yoga.ID {
		t.Fatalf("expected start-time ordering, got event %d first", got[0].Event.ID)
	}
	if got[0].Count != 2 || !got[0].IsFull {
		t.Fatalf("expected yoga full at 2/2, got count=%d full=%v", got[0].Count, got[0].IsFull)
	}
	if got[1].Count != 1 || got[1].IsFull {
		t.Fatalf("expected mahjong 1/16 not full, got count=%d full=%v", got[1].Count, got[1].IsFull)
	}
}

func TestEventService_ListWithCounts_CountError(t *testing.T) {
	eventRepo := newMockEventRepository()
	eventRepo.add(&domain.Event{Title: "Morning Yoga Session", MaxCapacity: 12, StartTime: time.Now()})

	regRepo := &mockRegistrationRepository{countErr: errors.New("db down")}
	svc := NewEventService(eventRepo, regRepo)

	if _, err := svc.ListWithCounts(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
