package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"communityreg/internal/domain"
)

type registrationService struct {
	eventRepo        domain.EventRepository
	participantRepo  domain.ParticipantRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	logger           *slog.Logger
}

// NewRegistrationService creates a RegistrationService. emailService may be
// nil; confirmation emails are then skipped.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	registrationRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		participantRepo:  participantRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		logger:           logger,
	}
}

// Register performs the capacity check and the insert as separate statements
// under default isolation. Concurrent attempts near the capacity boundary can
// transiently admit one over capacity; only the (event_id, participant_id)
// uniqueness is hard-guaranteed, by the store's constraint. See DESIGN.md.
func (s *registrationService) Register(ctx context.Context, eventID, participantID int64, source domain.Source) (*domain.Registration, error) {
	if !source.Valid() {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	count, err := s.registrationRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= event.MaxCapacity {
		return nil, domain.ErrEventFull
	}

	reg := domain.NewRegistration(eventID, participantID, source, time.Now())
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.sendConfirmation(ctx, event, participant)
	return reg, nil
}

// sendConfirmation emails the participant's caregiver, if any. Failures are
// logged and never fail the registration.
func (s *registrationService) sendConfirmation(ctx context.Context, event *domain.Event, participant *domain.Participant) {
	if s.emailService == nil || participant.OwnerID == nil {
		return
	}
	owner, err := s.userRepo.GetByID(ctx, *participant.OwnerID)
	if err != nil {
		s.logger.WarnContext(ctx, "confirmation email skipped", "participant_id", participant.ID, "err", err)
		return
	}
	data := &domain.RegistrationConfirmationEmailData{
		Email:           owner.Email,
		ParticipantName: participant.FullName,
		EventTitle:      event.Title,
		EventStart:      event.StartTime,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "participant_id", participant.ID, "err", err)
	}
}

func (s *registrationService) ListRegistrations(ctx context.Context, eventID *int64) ([]*domain.RegistrationDetail, error) {
	details, err := s.registrationRepo.ListDetailed(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if details == nil {
		details = []*domain.RegistrationDetail{}
	}
	return details, nil
}

func (s *registrationService) RegisteredEventIDsForOwner(ctx context.Context, ownerID int64) (map[int64]struct{}, error) {
	ids, err := s.registrationRepo.ListEventIDsByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list registered event ids: %w", err)
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
