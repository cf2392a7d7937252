package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"communityreg/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo            domain.UserRepository
	participantService  domain.ParticipantService
	hasher              domain.PasswordHasher
	tokenIssuer         domain.TokenIssuer
	tokenExpiry         time.Duration
	emailService        domain.EmailService
	staffAccessCode     string
	caregiverAccessCode string
	logger              *slog.Logger
}

// NewAuthService creates an AuthService. emailService may be nil; the welcome
// email is then skipped.
func NewAuthService(
	userRepo domain.UserRepository,
	participantService domain.ParticipantService,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
	staffAccessCode, caregiverAccessCode string,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		userRepo:            userRepo,
		participantService:  participantService,
		hasher:              hasher,
		tokenIssuer:         tokenIssuer,
		tokenExpiry:         tokenExpiry,
		emailService:        emailService,
		staffAccessCode:     staffAccessCode,
		caregiverAccessCode: caregiverAccessCode,
		logger:              logger,
	}
}

func (s *authService) SignUp(ctx context.Context, params domain.SignUpParams) (string, *domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if !emailRegexp.MatchString(email) {
		return "", nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(params.Password) < minPasswordLen {
		return "", nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	role := params.Role
	if role == "" {
		role = domain.RoleCaregiver
	}
	if !role.Valid() {
		return "", nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, params.Role)
	}
	// Privileged roles are gated by access codes. A caregiver code is only
	// checked when one was supplied.
	if role == domain.RoleAdmin && params.AccessCode != s.staffAccessCode {
		return "", nil, fmt.Errorf("%w: invalid staff access code", domain.ErrForbidden)
	}
	if role == domain.RoleCaregiver && params.AccessCode != "" && params.AccessCode != s.caregiverAccessCode {
		return "", nil, fmt.Errorf("%w: invalid caregiver access code", domain.ErrForbidden)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return "", nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, params.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(email, hash, salt, role, name, time.Now())
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return "", nil, domain.ErrDuplicateEmail
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	// Optional participant profile. ResolveOrCreate links the owner only
	// when the profile is created here; an existing profile is untouched.
	// The account row is already committed, so a failed profile create is
	// logged and the signup still succeeds; the caregiver can link later.
	if nric := domain.NormalizeNRIC(params.NRIC); nric != "" {
		if _, err := s.participantService.ResolveOrCreate(ctx, nric, name, &user.ID); err != nil {
			s.logger.WarnContext(ctx, "participant profile creation failed", "user_id", user.ID, "err", err)
		}
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Name: name}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
		}
	}

	return token, user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *authService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
