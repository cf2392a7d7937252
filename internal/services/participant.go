package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"communityreg/internal/domain"
)

type participantService struct {
	participantRepo domain.ParticipantRepository
}

// NewParticipantService creates a ParticipantService with the given repository.
func NewParticipantService(participantRepo domain.ParticipantRepository) domain.ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
	}
}

func (s *participantService) ResolveOrCreate(ctx context.Context, nric, fullName string, ownerID *int64) (*domain.Participant, error) {
	nric = domain.NormalizeNRIC(nric)
	if nric == "" {
		return nil, domain.ErrInvalidInput
	}

	p, err := s.participantRepo.GetByNRIC(ctx, nric)
	if err == nil {
		// First write wins: name and owner on this call are ignored for an
		// existing record. Ownership changes go through Link.
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get participant: %w", err)
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, domain.ErrInvalidInput
	}
	p = domain.NewParticipant(nric, fullName, ownerID, time.Now())
	if err := s.participantRepo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicateNRIC) {
			// Lost a create race: the row exists now, so read it back.
			existing, rerr := s.participantRepo.GetByNRIC(ctx, nric)
			if rerr != nil {
				return nil, fmt.Errorf("reread participant after conflict: %w", rerr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return p, nil
}

func (s *participantService) Link(ctx context.Context, nric, fullName string, ownerID int64) (*domain.Participant, domain.LinkOutcome, error) {
	nric = domain.NormalizeNRIC(nric)
	if nric == "" {
		return nil, "", domain.ErrInvalidInput
	}

	p, err := s.participantRepo.GetByNRIC(ctx, nric)
	if errors.Is(err, domain.ErrNotFound) {
		fullName = strings.TrimSpace(fullName)
		if fullName == "" {
			return nil, "", domain.ErrInvalidInput
		}
		created := domain.NewParticipant(nric, fullName, &ownerID, time.Now())
		cerr := s.participantRepo.Create(ctx, created)
		if cerr == nil {
			return created, domain.LinkCreatedAndLinked, nil
		}
		if !errors.Is(cerr, domain.ErrDuplicateNRIC) {
			return nil, "", fmt.Errorf("create participant: %w", cerr)
		}
		// Someone created it concurrently; fall through to the ownership checks.
		p, err = s.participantRepo.GetByNRIC(ctx, nric)
	}
	if err != nil {
		return nil, "", fmt.Errorf("get participant: %w", err)
	}

	if p.OwnerID != nil {
		if *p.OwnerID == ownerID {
			return p, domain.LinkAlreadyLinkedToCaller, nil
		}
		// Ownership is exclusive; reassignment requires an explicit unlink.
		return nil, domain.LinkAlreadyLinkedToOther, nil
	}

	if err := s.participantRepo.SetOwner(ctx, p.ID, &ownerID); err != nil {
		return nil, "", fmt.Errorf("set participant owner: %w", err)
	}
	p.OwnerID = &ownerID
	return p, domain.LinkLinkedExisting, nil
}

func (s *participantService) Unlink(ctx context.Context, participantID, ownerID int64) (domain.UnlinkOutcome, error) {
	p, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UnlinkNotFound, nil
		}
		return "", fmt.Errorf("get participant: %w", err)
	}
	if p.OwnerID == nil || *p.OwnerID != ownerID {
		return domain.UnlinkNotAuthorized, nil
	}
	// The row and its registrations are retained; only the link is cleared.
	if err := s.participantRepo.SetOwner(ctx, p.ID, nil); err != nil {
		return "", fmt.Errorf("clear participant owner: %w", err)
	}
	return domain.Unlinked, nil
}

func (s *participantService) FindPrimaryForOwner(ctx context.Context, ownerID int64) (*domain.Participant, error) {
	p, err := s.participantRepo.FirstByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get primary participant: %w", err)
	}
	return p, nil
}

func (s *participantService) FindAllForOwner(ctx context.Context, ownerID int64) ([]*domain.Participant, error) {
	participants, err := s.participantRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}
