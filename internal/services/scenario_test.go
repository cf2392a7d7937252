package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"communityreg/internal/domain"
)

// End-to-end scenarios across the real services sharing one set of in-memory
// repositories, exercising the registration pipeline the way the HTTP layer
// drives it.

func TestScenario_CapacityFiveFillsUp(t *testing.T) {
	ctx := context.Background()

	eventRepo := newMockEventRepository()
	participantRepo := newMockParticipantRepository()
	regRepo := &mockRegistrationRepository{}
	userRepo := newMockUserRepository()

	eventSvc := NewEventService(eventRepo, regRepo)
	participantSvc := NewParticipantService(participantRepo)
	registrationSvc := NewRegistrationService(eventRepo, participantRepo, regRepo, userRepo, nil, testLogger())

	event, err := eventSvc.Create(ctx, "Smartphone Basics Class", nil, 5, time.Now().Add(9*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		p, err := participantSvc.ResolveOrCreate(ctx, fmt.Sprintf("S500000%dA", i), fmt.Sprintf("Senior %d", i), nil)
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if _, err := registrationSvc.Register(ctx, event.ID, p.ID, domain.SourceOnline); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	listed, err := eventSvc.ListWithCounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(listed))
	}
	if listed[0].Count != 5 || !listed[0].IsFull {
		t.Fatalf("expected count=5 is_full=true, got count=%d is_full=%v", listed[0].Count, listed[0].IsFull)
	}

	sixth, err := participantSvc.ResolveOrCreate(ctx, "S5000069A", "Senior 6", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := registrationSvc.Register(ctx, event.ID, sixth.ID, domain.SourceOnline); !errors.Is(err, domain.ErrEventFull) {
		t.Fatalf("expected ErrEventFull, got %v", err)
	}
	if len(regRepo.registrations) != 5 {
		t.Fatalf("expected exactly 5 stored registrations, got %d", len(regRepo.registrations))
	}
}

func TestScenario_UnlinkKeepsRegistrationHistory(t *testing.T) {
	ctx := context.Background()

	eventRepo := newMockEventRepository()
	participantRepo := newMockParticipantRepository()
	regRepo := &mockRegistrationRepository{}
	userRepo := newMockUserRepository()

	eventSvc := NewEventService(eventRepo, regRepo)
	participantSvc := NewParticipantService(participantRepo)
	registrationSvc := NewRegistrationService(eventRepo, participantRepo, regRepo, userRepo, nil, testLogger())

	caregiver := userRepo.add(&domain.User{Email: "alice.tan@gmail.com", Role: domain.RoleCaregiver})
	event, err := eventSvc.Create(ctx, "Morning Yoga Session", nil, 1, time.Now().Add(48*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := participantSvc.ResolveOrCreate(ctx, "S1234567A", "Tan Ah Kow", &caregiver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg, err := registrationSvc.Register(ctx, event.ID, p.ID, domain.SourceOnline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regRepo.details = append(regRepo.details, &domain.RegistrationDetail{
		Registration: reg,
		Participant:  p,
		Event:        event,
	})

	outcome, err := participantSvc.Unlink(ctx, p.ID, caregiver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != domain.Unlinked {
		t.Fatalf("expected Unlinked, got %q", outcome)
	}

	// The admin roll still shows the registration under the same participant.
	details, err := registrationSvc.ListRegistrations(ctx, &event.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 registration after unlink, got %d", len(details))
	}
	if details[0].Registration.ParticipantID != p.ID {
		t.Fatalf("registration points at participant %d, want %d", details[0].Registration.ParticipantID, p.ID)
	}

	if len(regRepo.registrations) != 1 || regRepo.registrations[0].ParticipantID != p.ID {
		t.Fatal("stored registration row changed on unlink")
	}

	// The event stays full; unlink frees no seat.
	listed, err := eventSvc.ListWithCounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listed[0].Count != 1 || !listed[0].IsFull {
		t.Fatalf("expected event still full, got count=%d is_full=%v", listed[0].Count, listed[0].IsFull)
	}
}

func TestScenario_OnlineThenWalkInDuplicate(t *testing.T) {
	ctx := context.Background()

	eventRepo := newMockEventRepository()
	participantRepo := newMockParticipantRepository()
	regRepo := &mockRegistrationRepository{}
	userRepo := newMockUserRepository()

	eventSvc := NewEventService(eventRepo, regRepo)
	participantSvc := NewParticipantService(participantRepo)
	registrationSvc := NewRegistrationService(eventRepo, participantRepo, regRepo, userRepo, nil, testLogger())

	event, err := eventSvc.Create(ctx, "Chair Exercises", nil, 20, time.Now().Add(15*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Registered online first; then brought to the front desk as a walk-in.
	p, err := participantSvc.ResolveOrCreate(ctx, "S1234567A", "Tan Ah Kow", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := registrationSvc.Register(ctx, event.ID, p.ID, domain.SourceOnline); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, err := participantSvc.ResolveOrCreate(ctx, " s1234567a ", "Tan Ah Kow", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != p.ID {
		t.Fatalf("front desk resolved a different participant: %d vs %d", again.ID, p.ID)
	}
	if _, err := registrationSvc.Register(ctx, event.ID, again.ID, domain.SourceWalkIn); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	if len(regRepo.registrations) != 1 {
		t.Fatalf("expected exactly 1 registration, got %d", len(regRepo.registrations))
	}
	if regRepo.registrations[0].Source != domain.SourceOnline {
		t.Fatalf("expected original online source kept, got %q", regRepo.registrations[0].Source)
	}
}
