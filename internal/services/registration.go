package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventplanner/internal/domain"
)

// Eligibility messages returned to the frontend.
const (
	msgAlreadyRegistered = "You are already registered for this event"
	msgEventInactive     = "Event is not active"
	msgEventPassed       = "Event has already started or passed"
	msgEventFull         = "Event is full"
	msgCanRegister       = "You can register for this event"
)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	eventRepo        domain.EventRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	logger           *slog.Logger
	now              func() time.Time
}

// NewRegistrationService creates a RegistrationService with the given
// repositories. The email service may be nil; confirmation mail is then
// skipped.
func NewRegistrationService(
	registrationRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		logger:           logger,
		now:              time.Now,
	}
}

// CanRegister evaluates eligibility over the current ledger state. The result
// is advisory: Register re-verifies everything inside the insert transaction.
func (s *registrationService) CanRegister(ctx context.Context, userID, eventID int64) (*domain.Eligibility, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.evaluate(ctx, userID, event)
}

func (s *registrationService) evaluate(ctx context.Context, userID int64, event *domain.Event) (*domain.Eligibility, error) {
	registered, err := s.registrationRepo.ExistsByUserAndEvent(ctx, userID, event.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}
	if registered {
		return &domain.Eligibility{Reason: domain.ReasonAlreadyRegistered, Message: msgAlreadyRegistered}, nil
	}
	if !event.IsActive {
		return &domain.Eligibility{Reason: domain.ReasonEventInactive, Message: msgEventInactive}, nil
	}
	if !event.IsUpcoming(s.now()) {
		return &domain.Eligibility{Reason: domain.ReasonEventPassed, Message: msgEventPassed}, nil
	}
	count, err := s.registrationRepo.CountByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= event.Capacity {
		return &domain.Eligibility{Reason: domain.ReasonEventFull, Message: msgEventFull}, nil
	}
	return &domain.Eligibility{
		Allowed:        true,
		Message:        msgCanRegister,
		AvailableSpots: event.Capacity - count,
	}, nil
}

func (s *registrationService) Register(ctx context.Context, actor domain.Actor, eventID int64) (*domain.Registration, int, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}

	// Advisory pre-check for a friendly rejection; the repository repeats
	// the checks atomically, so a pass here is never trusted on its own.
	elig, err := s.evaluate(ctx, actor.UserID, event)
	if err != nil {
		return nil, 0, err
	}
	if !elig.Allowed {
		return nil, 0, eligibilityError(elig.Reason)
	}

	reg, err := s.registrationRepo.Register(ctx, actor.UserID, eventID, s.now())
	if err != nil {
		// Late-detected races surface identically to the pre-check outcomes.
		return nil, 0, err
	}

	count, err := s.registrationRepo.CountByEvent(ctx, eventID)
	if err != nil {
		// The registration is committed; availability is display-only.
		s.logger.WarnContext(ctx, "count registrations after register", "event_id", eventID, "err", err)
		count = 0
	}
	available := event.Capacity - count
	if available < 0 {
		available = 0
	}

	s.sendConfirmation(ctx, actor.UserID, event)
	return reg, available, nil
}

func eligibilityError(reason domain.EligibilityReason) error {
	switch reason {
	case domain.ReasonAlreadyRegistered:
		return domain.ErrAlreadyRegistered
	case domain.ReasonEventInactive:
		return domain.ErrEventInactive
	case domain.ReasonEventPassed:
		return domain.ErrEventPassed
	case domain.ReasonEventFull:
		return domain.ErrEventFull
	default:
		return fmt.Errorf("registration rejected: %s", reason)
	}
}

// sendConfirmation mails the registration confirmation. Failures are logged
// and never fail the registration itself.
func (s *registrationService) sendConfirmation(ctx context.Context, userID int64, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "load user for confirmation email", "user_id", userID, "err", err)
		return
	}
	err = s.emailService.SendRegistrationConfirmed(ctx, &domain.RegistrationConfirmedEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventTitle: event.Title,
		EventPlace: event.Place,
		StartDate:  event.StartDate,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "send confirmation email", "user_id", userID, "event_id", event.ID, "err", err)
	}
}

func (s *registrationService) Cancel(ctx context.Context, actor domain.Actor, registrationID int64) error {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}

	if reg.UserID != actor.UserID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.checkCancelWindow(ctx, reg.EventID); err != nil {
		return err
	}

	if err := s.registrationRepo.Delete(ctx, registrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Concurrent double-cancel; the second attempt sees NotFound.
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationService) Unregister(ctx context.Context, actor domain.Actor, eventID int64) error {
	if _, err := s.registrationRepo.FindByUserAndEvent(ctx, actor.UserID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("find registration: %w", err)
	}

	if err := s.checkCancelWindow(ctx, eventID); err != nil {
		return err
	}

	if err := s.registrationRepo.DeleteByUserAndEvent(ctx, actor.UserID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// checkCancelWindow enforces the cancellation policy: registrations for events
// that have already started may not be cancelled.
func (s *registrationService) checkCancelWindow(ctx context.Context, eventID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Event deleted from under the registration; the FK cascade
			// removes registrations with it, so treat as gone.
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !event.StartDate.After(s.now()) {
		return domain.ErrEventAlreadyStarted
	}
	return nil
}

func (s *registrationService) IsRegistered(ctx context.Context, userID, eventID int64) (bool, error) {
	registered, err := s.registrationRepo.ExistsByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return registered, nil
}

func (s *registrationService) ListForUser(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]*domain.RegistrationDetail, int, error) {
	details, total, err := s.registrationRepo.ListByUser(ctx, actor.UserID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return details, total, nil
}

func (s *registrationService) ListForEvent(ctx context.Context, actor domain.Actor, eventID int64, p domain.PaginationParams) ([]*domain.RegistrationDetail, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	details, total, err := s.registrationRepo.ListByEvent(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return details, total, nil
}

func (s *registrationService) ListAll(ctx context.Context, actor domain.Actor, p domain.PaginationParams) ([]*domain.RegistrationDetail, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	details, total, err := s.registrationRepo.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return details, total, nil
}
