package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// parseIDParam reads the named path parameter as a positive int64. On failure it
// writes a 400 JSON error and returns false.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing "+name)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Place       string    `json:"place"`
	Price       float64   `json:"price"`
	CategoryID  int64     `json:"category_id"`
	Capacity    int       `json:"capacity"`
	Image       *string   `json:"image"`
	IsActive    *bool     `json:"is_active"`
}

// Validate implements helpers.Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if c.EndDate.IsZero() {
		errs = append(errs, "end_date is required")
	}
	if c.CategoryID < 1 {
		errs = append(errs, "category_id is required")
	}
	if c.Capacity < 1 {
		errs = append(errs, "capacity must be at least 1")
	}
	if c.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

// Create godoc
// @Summary Create a new event
// @Description Creates an event with a fixed capacity. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "validation failure"
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "caller is not an admin"
// @Failure 500 {object} helpers.APIResponse
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Place:       req.Place,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Capacity:    req.Capacity,
		Image:       req.Image,
		IsActive:    true,
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	created, err := c.Service.Create(r.Context(), actor, event)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, "Only admins can manage events")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, "Event created successfully", created)
}

// List godoc
// @Summary List events
// @Description Returns a paginated list of events. Supports category_id, search, upcoming, and active filters.
// @Tags events
// @Produce json
// @Param category_id query int false "Filter by category"
// @Param search query string false "Filter by title or description substring (case-insensitive)"
// @Param upcoming query bool false "Only events that have not started yet"
// @Param active query bool false "Only active events"
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 15, max 100)"
// @Success 200 {object} helpers.APIResponse "data is an array of events, meta contains pagination"
// @Failure 500 {object} helpers.APIResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Search:       strings.TrimSpace(q.Get("search")),
		UpcomingOnly: q.Get("upcoming") == "true",
		ActiveOnly:   q.Get("active") == "true",
	}
	if s := q.Get("category_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 1 {
			helpers.WriteJSONError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		filter.CategoryID = &id
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}

	meta := helpers.NewPaginationMeta(params.Page, params.PerPage, total)
	helpers.WriteJSONPaginated(w, http.StatusOK, "Events retrieved successfully", events, meta)
}

// ListUpcoming godoc
// @Summary List upcoming events
// @Description Returns a paginated list of active events that have not started yet.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 15, max 100)"
// @Success 200 {object} helpers.APIResponse "data is an array of events, meta contains pagination"
// @Failure 500 {object} helpers.APIResponse
// @Router /events/upcoming [get]
func (c *EventController) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventFilter{UpcomingOnly: true, ActiveOnly: true}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}

	meta := helpers.NewPaginationMeta(params.Page, params.PerPage, total)
	helpers.WriteJSONPaginated(w, http.StatusOK, "Upcoming events retrieved successfully", events, meta)
}

// GetByID godoc
// @Summary Get an event by ID
// @Description Returns the event together with the number of available spots.
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event with available_spots"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}

	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Event retrieved successfully", event)
}

// UpdateEventRequest is the request body for PUT /events/{eventID}. All fields
// optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Place       *string    `json:"place"`
	Price       *float64   `json:"price"`
	CategoryID  *int64     `json:"category_id"`
	Capacity    *int       `json:"capacity"`
	Image       *string    `json:"image"`
	IsActive    *bool      `json:"is_active"`
}

// Validate implements helpers.Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Capacity != nil && *u.Capacity < 1 {
		errs = append(errs, "capacity must be at least 1")
	}
	if u.Price != nil && *u.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	if u.CategoryID != nil && *u.CategoryID < 1 {
		errs = append(errs, "category_id must be positive")
	}
	return errs
}

// Update godoc
// @Summary Update an event
// @Description Updates event fields. Capacity cannot be lowered below the current registration count. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body controllers.UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "caller is not an admin"
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /events/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Place:       req.Place,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Capacity:    req.Capacity,
		Image:       req.Image,
		IsActive:    req.IsActive,
	}

	event, err := c.Service.Update(r.Context(), actor, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, "Only admins can manage events")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Event updated successfully", event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes an event and, via cascade, its registrations. Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "caller is not an admin"
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Delete(r.Context(), actor, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, "Only admins can manage events")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Event deleted successfully", nil)
}

// ListCategories godoc
// @Summary List event categories
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of categories"
// @Failure 500 {object} helpers.APIResponse
// @Router /categories [get]
func (c *EventController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.ListCategories(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, "Categories retrieved successfully", categories)
}
