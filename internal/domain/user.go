package domain

import (
	"context"
	"time"
)

// Role is the closed set of application roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCaregiver Role = "caregiver"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCaregiver
}

// IsAdmin reports whether the role grants staff capabilities
// (publishing events, viewing and exporting registration rolls).
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents an authenticable account (staff or caregiver).
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         Role      `json:"role"`
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, passwordHash, salt string, role Role, displayName string, createdAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Role:         role,
		DisplayName:  displayName,
		CreatedAt:    createdAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (userID int64, role Role, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// SignUpParams carries the inputs for account creation.
type SignUpParams struct {
	Email      string
	Password   string
	Name       string
	NRIC       string // optional; creates a linked participant profile when set
	Role       Role
	AccessCode string
}

// AuthService defines account creation and authentication.
type AuthService interface {
	// SignUp creates the account (and a linked participant when an NRIC is
	// given) and returns a signed token for the new user.
	SignUp(ctx context.Context, params SignUpParams) (token string, user *User, err error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
