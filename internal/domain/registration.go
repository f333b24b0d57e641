package domain

import (
	"context"
	"time"
)

// Registration is a commitment of one user to one event. At most one
// registration exists per (user, event) pair; cancelling deletes the row and a
// later register creates a fresh one.
// swagger:model Registration
type Registration struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventID   int64     `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRegistration returns a new Registration. ID is set by the repository on
// create.
func NewRegistration(userID, eventID int64, createdAt time.Time) *Registration {
	return &Registration{
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: createdAt,
	}
}

// RegistrationDetail bundles a registration with its related event and/or
// user, assembled explicitly at the repository boundary for list endpoints.
type RegistrationDetail struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event,omitempty"`
	User         *User         `json:"user,omitempty"`
}

// EligibilityReason identifies why a user may not register right now.
type EligibilityReason string

const (
	ReasonAlreadyRegistered EligibilityReason = "already_registered"
	ReasonEventInactive     EligibilityReason = "event_inactive"
	ReasonEventPassed       EligibilityReason = "event_passed"
	ReasonEventFull         EligibilityReason = "event_full"
)

// Eligibility is the evaluator's answer to "can this user register now?".
// It is advisory only: the result can go stale the instant after evaluation,
// and the ledger's transactional register path re-verifies everything.
type Eligibility struct {
	Allowed        bool              `json:"can_register"`
	Reason         EligibilityReason `json:"reason,omitempty"`
	Message        string            `json:"message"`
	AvailableSpots int               `json:"available_spots"`
}

// RegistrationRepository is the ledger: the authoritative durable store of
// registrations.
type RegistrationRepository interface {
	// Register inserts a registration for (userID, eventID) as a single
	// atomic unit with the duplicate and capacity checks: it locks the event
	// row, re-verifies activity window, uniqueness and capacity, and inserts.
	// Returns ErrNotFound, ErrEventInactive, ErrEventPassed,
	// ErrAlreadyRegistered or ErrEventFull; a unique-index violation on a
	// racing insert surfaces as ErrAlreadyRegistered.
	Register(ctx context.Context, userID, eventID int64, now time.Time) (*Registration, error)

	GetByID(ctx context.Context, id int64) (*Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID int64) (*Registration, error)
	ExistsByUserAndEvent(ctx context.Context, userID, eventID int64) (bool, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)

	Delete(ctx context.Context, id int64) error
	DeleteByUserAndEvent(ctx context.Context, userID, eventID int64) error

	ListByUser(ctx context.Context, userID int64, p PaginationParams) ([]*RegistrationDetail, int, error)
	ListByEvent(ctx context.Context, eventID int64, p PaginationParams) ([]*RegistrationDetail, int, error)
	ListAll(ctx context.Context, p PaginationParams) ([]*RegistrationDetail, int, error)
}

// RegistrationService defines the registration operations exposed to callers.
type RegistrationService interface {
	// CanRegister evaluates eligibility without side effects.
	CanRegister(ctx context.Context, userID, eventID int64) (*Eligibility, error)
	// Register registers the acting user for the event. Returns the created
	// registration and the spots remaining after it.
	Register(ctx context.Context, actor Actor, eventID int64) (*Registration, int, error)
	// Cancel removes the registration by id. Only the owning user or an admin
	// may cancel, and only before the event starts.
	Cancel(ctx context.Context, actor Actor, registrationID int64) error
	// Unregister removes the acting user's registration for the event.
	Unregister(ctx context.Context, actor Actor, eventID int64) error
	IsRegistered(ctx context.Context, userID, eventID int64) (bool, error)
	ListForUser(ctx context.Context, actor Actor, p PaginationParams) ([]*RegistrationDetail, int, error)
	ListForEvent(ctx context.Context, actor Actor, eventID int64, p PaginationParams) ([]*RegistrationDetail, int, error)
	ListAll(ctx context.Context, actor Actor, p PaginationParams) ([]*RegistrationDetail, int, error)
}
