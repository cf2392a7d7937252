package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"communityreg/internal/domain"
)

const (
	testStaffCode     = "STAFF123"
	testCaregiverCode = "CARE456"
)

func newAuthFixture() (*mockUserRepository, *mockParticipantRepository, *mockEmailService, domain.AuthService) {
	userRepo := newMockUserRepository()
	participantRepo := newMockParticipantRepository()
	emails := &mockEmailService{}
	svc := NewAuthService(
		userRepo,
		NewParticipantService(participantRepo),
		&mockHasher{},
		&mockTokenIssuer{},
		time.Hour,
		emails,
		testStaffCode,
		testCaregiverCode,
		testLogger(),
	)
	return userRepo, participantRepo, emails, svc
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("caregiver with nric gets a linked profile", func(t *testing.T) {
		_, participantRepo, emails, svc := newAuthFixture()

		token, user, err := svc.SignUp(ctx, domain.SignUpParams{
			Email:    "Alice.Tan@Gmail.com",
			Password: "demo1234",
			Name:     "Alice Tan",
			NRIC:     "s1234567a",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Fatal("expected a token")
		}
		if user.Email != "alice.tan@gmail.com" {
			t.Fatalf("expected lowercased email, got %q", user.Email)
		}
		if user.Role != domain.RoleCaregiver {
			t.Fatalf("expected default caregiver role, got %q", user.Role)
		}

		p, err := participantRepo.GetByNRIC(ctx, "S1234567A")
		if err != nil {
			t.Fatalf("expected linked participant: %v", err)
		}
		if p.OwnerID == nil || *p.OwnerID != user.ID {
			t.Fatalf("expected participant owned by %d, got %v", user.ID, p.OwnerID)
		}

		if len(emails.welcomeSent) != 1 || emails.welcomeSent[0] != "alice.tan@gmail.com" {
			t.Fatalf("expected welcome email, got %v", emails.welcomeSent)
		}
	})

	t.Run("signup without nric creates no profile", func(t *testing.T) {
		_, participantRepo, _, svc := newAuthFixture()

		_, _, err := svc.SignUp(ctx, domain.SignUpParams{
			Email:    "bob.lee@gmail.com",
			Password: "demo1234",
			Name:     "Bob Lee",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(participantRepo.participants) != 0 {
			t.Fatalf("expected no participants, got %d", len(participantRepo.participants))
		}
	})

	t.Run("existing nric is not re-owned", func(t *testing.T) {
		_, participantRepo, _, svc := newAuthFixture()
		other := int64(99)
		participantRepo.add(&domain.Participant{NRIC: "S1234567A", FullName: "Tan Ah Kow", OwnerID: &other})

		_, _, err := svc.SignUp(ctx, domain.SignUpParams{
			Email:    "alice.tan@gmail.com",
			Password: "demo1234",
			Name:     "Alice Tan",
			NRIC:     "S1234567A",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, _ := participantRepo.GetByNRIC(ctx, "S1234567A")
		if p.OwnerID == nil || *p.OwnerID != other {
			t.Fatalf("ownership changed on signup: %v", p.OwnerID)
		}
	})

	t.Run("profile store failure does not strand the account", func(t *testing.T) {
		userRepo, participantRepo, _, svc := newAuthFixture()
		participantRepo.createErr = errors.New("store unreachable")

		token, user, err := svc.SignUp(ctx, domain.SignUpParams{
			Email:    "alice.tan@gmail.com",
			Password: "demo1234",
			Name:     "Alice Tan",
			NRIC:     "S1234567A",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Fatal("expected a token")
		}
		if len(userRepo.users) != 1 {
			t.Fatalf("expected 1 user, got %d", len(userRepo.users))
		}
		if len(participantRepo.participants) != 0 {
			t.Fatalf("expected no participants, got %d", len(participantRepo.participants))
		}

		// The committed account stays usable; the profile can be linked later.
		if _, _, err := svc.Login(ctx, user.Email, "demo1234"); err != nil {
			t.Fatalf("login after degraded signup: %v", err)
		}
	})

	t.Run("admin requires staff access code", func(t *testing.T) {
		_, _, _, svc := newAuthFixture()

		_, _, err := svc.SignUp(ctx, domain.SignUpParams{
			Email:      "staff@communityreg.sg",
			Password:   "staff1234",
			Name:       "Staff",
			Role:       domain.RoleAdmin,
			AccessCode: "wrong",
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}

		_, user, err := svc.SignUp(ctx, domain.SignUpParams{
			Email:      "staff@communityreg.sg",
			Password:   "staff1234",
			Name:       "Staff",
			Role:       domain.RoleAdmin,
			AccessCode: testStaffCode,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role != domain.RoleAdmin {
			t.Fatalf("expected admin role, got %q", user.Role)
		}
	})

	t.Run("wrong caregiver code rejected when supplied", func(t *testing.T) {
		_, _, _, svc := newAuthFixture()

		_, _, err := svc.SignUp(ctx, domain.SignUpParams{
			Email:      "alice.tan@gmail.com",
			Password:   "demo1234",
			Name:       "Alice Tan",
			AccessCode: "wrong",
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, _, _, svc := newAuthFixture()

		params := domain.SignUpParams{
			Email:    "alice.tan@gmail.com",
			Password: "demo1234",
			Name:     "Alice Tan",
		}
		if _, _, err := svc.SignUp(ctx, params); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, _, err := svc.SignUp(ctx, params); !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("input validation", func(t *testing.T) {
		_, _, _, svc := newAuthFixture()

		cases := []domain.SignUpParams{
			{Email: "not-an-email", Password: "demo1234", Name: "Alice Tan"},
			{Email: "alice.tan@gmail.com", Password: "short", Name: "Alice Tan"},
			{Email: "alice.tan@gmail.com", Password: "demo1234", Name: "   "},
			{Email: "alice.tan@gmail.com", Password: "demo1234", Name: "Alice Tan", Role: domain.Role("superuser")},
		}
		for i, params := range cases {
			if _, _, err := svc.SignUp(ctx, params); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
			}
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	_, _, _, svc := newAuthFixture()
	if _, _, err := svc.SignUp(ctx, domain.SignUpParams{
		Email:    "alice.tan@gmail.com",
		Password: "demo1234",
		Name:     "Alice Tan",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		token, user, err := svc.Login(ctx, " Alice.Tan@Gmail.com ", "demo1234")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token == "" {
			t.Fatal("expected a token")
		}
		if user.Email != "alice.tan@gmail.com" {
			t.Fatalf("unexpected email %q", user.Email)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "alice.tan@gmail.com", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "nobody@example.com", "demo1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_GetByID(t *testing.T) {
	ctx := context.Background()
	userRepo, _, _, svc := newAuthFixture()
	u := userRepo.add(&domain.User{Email: "alice.tan@gmail.com", Role: domain.RoleCaregiver})

	got, err := svc.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != u.Email {
		t.Fatalf("unexpected user %+v", got)
	}

	if _, err := svc.GetByID(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
