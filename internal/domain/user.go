package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateEmail is returned when signing up with an email that is
// already in use.
var ErrDuplicateEmail = errors.New("email already in use")

// Role is an application role. Admins manage events and may inspect any
// registration; regular users register for events.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor identifies the authenticated user performing an operation. Services
// take an explicit Actor instead of pulling identity from ambient state.
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the acting user holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated actor.
type TokenVerifier interface {
	Verify(token string) (Actor, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, user *User) error
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
