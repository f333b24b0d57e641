package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	categoryRepo     domain.CategoryRepository
	registrationRepo domain.RegistrationRepository
	now              func() time.Time
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	registrationRepo domain.RegistrationRepository,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		categoryRepo:     categoryRepo,
		registrationRepo: registrationRepo,
		now:              time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, actor domain.Actor, event *domain.Event) (*domain.Event, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := s.validate(ctx, event); err != nil {
		return nil, err
	}

	now := s.now()
	event.CreatedBy = actor.UserID
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) validate(ctx context.Context, event *domain.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if !event.EndDate.After(event.StartDate) {
		return fmt.Errorf("%w: end_date must be after start_date", domain.ErrInvalidInput)
	}
	if event.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: category %d does not exist", domain.ErrInvalidInput, event.CategoryID)
		}
		return fmt.Errorf("get category: %w", err)
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.EventWithAvailability, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	count, err := s.registrationRepo.CountByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	available := event.Capacity - count
	if available < 0 {
		available = 0
	}
	return &domain.EventWithAvailability{Event: event, AvailableSpots: available}, nil
}

func (s *eventService) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	events, total, err := s.eventRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) Update(ctx context.Context, actor domain.Actor, id int64, upd domain.EventUpdate) (*domain.Event, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if upd.Capacity != nil {
		if *upd.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
		}
		count, err := s.registrationRepo.CountByEvent(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("count registrations: %w", err)
		}
		if *upd.Capacity < count {
			return nil, fmt.Errorf("%w: capacity %d is below current registration count %d", domain.ErrInvalidInput, *upd.Capacity, count)
		}
	}
	if upd.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *upd.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: category %d does not exist", domain.ErrInvalidInput, *upd.CategoryID)
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
	}
	start := current.StartDate
	end := current.EndDate
	if upd.StartDate != nil {
		start = *upd.StartDate
	}
	if upd.EndDate != nil {
		end = *upd.EndDate
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *eventService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	// Registrations go with the event via the FK cascade.
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
