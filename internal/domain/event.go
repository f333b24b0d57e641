package domain

import (
	"context"
	"time"
)

// Event represents a plannable activity with a fixed capacity and time window.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Place       string    `json:"place"`
	Price       float64   `json:"price"`
	CategoryID  int64     `json:"category_id"`
	Capacity    int       `json:"capacity"`
	Image       *string   `json:"image,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsUpcoming reports whether the event starts strictly after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartDate.After(now)
}

// IsFree reports whether the event has no price.
func (e *Event) IsFree() bool {
	return e.Price == 0
}

// EventWithAvailability bundles an event with its current available spots.
type EventWithAvailability struct {
	*Event
	AvailableSpots int `json:"available_spots"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	CategoryID   *int64
	Search       string
	UpcomingOnly bool
	ActiveOnly   bool
}

// EventUpdate holds the updatable event fields; nil means "leave unchanged".
// Capacity is fixed at creation and cannot be lowered below the current
// registration count.
type EventUpdate struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Place       *string
	Price       *float64
	CategoryID  *int64
	Capacity    *int
	Image       *string
	IsActive    *bool
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id int64, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventService defines event management and browsing.
type EventService interface {
	Create(ctx context.Context, actor Actor, event *Event) (*Event, error)
	GetByID(ctx context.Context, id int64) (*EventWithAvailability, error)
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, actor Actor, id int64, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	ListCategories(ctx context.Context) ([]*Category, error)
}

// Category groups events.
// swagger:model Category
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryRepository defines read access to categories. Category management
// is out of scope; events only need existence checks and listing.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}
