package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

type mockEventService struct {
	event      *domain.EventWithAvailability
	created    *domain.Event
	events     []*domain.Event
	total      int
	categories []*domain.Category
	filter     domain.EventFilter
	err        error
}

func (m *mockEventService) Create(ctx context.Context, actor domain.Actor, event *domain.Event) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = event
	event.ID = 1
	return event, nil
}

func (m *mockEventService) GetByID(ctx context.Context, id int64) (*domain.EventWithAvailability, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

func (m *mockEventService) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.filter = filter
	return m.events, m.total, nil
}

func (m *mockEventService) Update(ctx context.Context, actor domain.Actor, id int64, upd domain.EventUpdate) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *mockEventService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return m.err
}

func (m *mockEventService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func TestEventController_Create_Success(t *testing.T) {
	svc := &mockEventService{}
	ctrl := NewEventController(discardLogger(), svc)

	body := `{
		"title": "Go Meetup",
		"description": "Monthly meetup",
		"start_date": "2026-10-05T18:30:00Z",
		"end_date": "2026-10-05T21:00:00Z",
		"place": "Lisbon",
		"price": 0,
		"category_id": 1,
		"capacity": 50
	}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: 9, Role: domain.RoleAdmin}))
	w := httptest.NewRecorder()

	ctrl.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	if svc.created == nil {
		t.Fatal("expected event to be passed to the service")
	}
	if !svc.created.IsActive {
		t.Fatal("expected event to default to active")
	}
}

func TestEventController_Create_ValidationFailure(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &mockEventService{})

	body := `{"title": "", "capacity": 0}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: 9, Role: domain.RoleAdmin}))
	w := httptest.NewRecorder()

	ctrl.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestEventController_Create_Forbidden(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &mockEventService{err: domain.ErrForbidden})

	body := `{
		"title": "Go Meetup",
		"start_date": "2026-10-05T18:30:00Z",
		"end_date": "2026-10-05T21:00:00Z",
		"category_id": 1,
		"capacity": 50
	}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: 1, Role: domain.RoleUser}))
	w := httptest.NewRecorder()

	ctrl.Create(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestEventController_GetByID_WithAvailability(t *testing.T) {
	start := time.Date(2026, 10, 5, 18, 30, 0, 0, time.UTC)
	svc := &mockEventService{
		event: &domain.EventWithAvailability{
			Event:          &domain.Event{ID: 5, Title: "Go Meetup", StartDate: start, Capacity: 50},
			AvailableSpots: 12,
		},
	}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events/5", nil)
	req.SetPathValue("eventID", "5")
	w := httptest.NewRecorder()

	ctrl.GetByID(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", resp.Data)
	}
	if data["available_spots"] != float64(12) {
		t.Fatalf("expected available_spots 12, got %v", data["available_spots"])
	}
}

func TestEventController_GetByID_NotFound(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &mockEventService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/events/99", nil)
	req.SetPathValue("eventID", "99")
	w := httptest.NewRecorder()

	ctrl.GetByID(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestEventController_List_Filters(t *testing.T) {
	svc := &mockEventService{events: []*domain.Event{}, total: 0}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events?category_id=3&search=go&upcoming=true&active=true", nil)
	w := httptest.NewRecorder()

	ctrl.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if svc.filter.CategoryID == nil || *svc.filter.CategoryID != 3 {
		t.Fatalf("expected category filter 3, got %v", svc.filter.CategoryID)
	}
	if svc.filter.Search != "go" || !svc.filter.UpcomingOnly || !svc.filter.ActiveOnly {
		t.Fatalf("unexpected filter: %+v", svc.filter)
	}
}

func TestEventController_List_InvalidCategoryID(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &mockEventService{})

	req := httptest.NewRequest(http.MethodGet, "/events?category_id=abc", nil)
	w := httptest.NewRecorder()

	ctrl.List(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestEventController_ListUpcoming_ForcesFilter(t *testing.T) {
	svc := &mockEventService{events: []*domain.Event{}, total: 0}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events/upcoming", nil)
	w := httptest.NewRecorder()

	ctrl.ListUpcoming(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !svc.filter.UpcomingOnly || !svc.filter.ActiveOnly {
		t.Fatalf("expected upcoming and active filters forced, got %+v", svc.filter)
	}
}

func TestEventController_Update_CapacityBelowOne(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &mockEventService{})

	body := `{"capacity": 0}`
	req := httptest.NewRequest(http.MethodPut, "/events/5", strings.NewReader(body))
	req.SetPathValue("eventID", "5")
	req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: 9, Role: domain.RoleAdmin}))
	w := httptest.NewRecorder()

	ctrl.Update(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestEventController_Delete_Forbidden(t *testing.T) {
	ctrl := NewEventController(discardLogger(), &mockEventService{err: domain.ErrForbidden})

	req := httptest.NewRequest(http.MethodDelete, "/events/5", nil)
	req.SetPathValue("eventID", "5")
	req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: 1, Role: domain.RoleUser}))
	w := httptest.NewRecorder()

	ctrl.Delete(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestEventController_ListCategories(t *testing.T) {
	svc := &mockEventService{categories: []*domain.Category{{ID: 1, Name: "Tech"}}}
	ctrl := NewEventController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	w := httptest.NewRecorder()

	ctrl.ListCategories(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	items, ok := resp.Data.([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", resp.Data)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 category, got %d", len(items))
	}
}
