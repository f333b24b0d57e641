package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// Registration failure messages shown to the frontend. These match the
// eligibility messages returned by the check endpoint.
const (
	msgAlreadyRegistered   = "You are already registered for this event"
	msgEventInactive       = "Event is not active"
	msgEventPassed         = "Event has already started or passed"
	msgEventFull           = "Event is full"
	msgEventAlreadyStarted = "Cannot cancel registration for an event that has already started"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// eligibilityMessage translates a registration rejection into the message the
// frontend displays. Returns "" for errors that are not eligibility failures.
func eligibilityMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return msgAlreadyRegistered
	case errors.Is(err, domain.ErrEventInactive):
		return msgEventInactive
	case errors.Is(err, domain.ErrEventPassed):
		return msgEventPassed
	case errors.Is(err, domain.ErrEventFull):
		return msgEventFull
	default:
		return ""
	}
}

// RegisterResponse is the data payload for POST /events/{eventID}/register (201).
type RegisterResponse struct {
	Registration   *domain.Registration `json:"registration"`
	AvailableSpots int                  `json:"available_spots"`
}

// Register godoc
// @Summary Register for an event
// @Description Registers the authenticated user for the event. Rejected when the user is already registered, the event is inactive, has started, or is full. The duplicate and capacity checks run atomically with the insert, so concurrent requests cannot oversell an event.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains the registration and remaining available_spots"
// @Failure 400 {object} helpers.APIResponse "eligibility failure; message explains why"
// @Failure 401 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "event not found"
// @Failure 500 {object} helpers.APIResponse
// @Router /events/{eventID}/register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reg, available, err := c.Service.Register(r.Context(), actor, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		if msg := eligibilityMessage(err); msg != "" {
			helpers.WriteJSONError(w, http.StatusBadRequest, msg)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, "Successfully registered for event", RegisterResponse{
		Registration:   reg,
		AvailableSpots: available,
	})
}

// CanRegister godoc
// @Summary Check registration eligibility for an event
// @Description Returns whether the authenticated user can register right now, with the reason and available spots. The result is advisory; the register endpoint re-verifies everything atomically.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains can_register, reason, message, and available_spots"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "event not found"
// @Failure 500 {object} helpers.APIResponse
// @Router /events/{eventID}/can-register [get]
func (c *RegistrationController) CanRegister(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	elig, err := c.Service.CanRegister(r.Context(), actor.UserID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Eligibility retrieved successfully", elig)
}

// CheckRegistrationResponse is the data payload for GET /registrations/check/{eventID} (200).
type CheckRegistrationResponse struct {
	IsRegistered bool `json:"is_registered"`
}

// Check godoc
// @Summary Check whether the current user is registered for an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains is_registered"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /registrations/check/{eventID} [get]
func (c *RegistrationController) Check(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	registered, err := c.Service.IsRegistered(r.Context(), actor.UserID, eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Registration status retrieved successfully", CheckRegistrationResponse{
		IsRegistered: registered,
	})
}

// Cancel godoc
// @Summary Cancel a registration by ID
// @Description Deletes the registration. Only the owning user or an admin may cancel, and only before the event starts. A later register creates a fresh registration.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path int true "Registration ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "event already started"
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "not the owner and not an admin"
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /registrations/{registrationID} [delete]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := parseIDParam(w, r, "registrationID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Cancel(r.Context(), actor, registrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Registration not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, "You cannot cancel this registration")
			return
		}
		if errors.Is(err, domain.ErrEventAlreadyStarted) {
			helpers.WriteJSONError(w, http.StatusBadRequest, msgEventAlreadyStarted)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Registration cancelled successfully", nil)
}

// Unregister godoc
// @Summary Unregister from an event
// @Description Deletes the authenticated user's registration for the event. Same cancellation window as cancel by ID.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "event already started"
// @Failure 401 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "not registered for this event"
// @Failure 500 {object} helpers.APIResponse
// @Router /registrations/unregister/{eventID} [delete]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Unregister(r.Context(), actor, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "You are not registered for this event")
			return
		}
		if errors.Is(err, domain.ErrEventAlreadyStarted) {
			helpers.WriteJSONError(w, http.StatusBadRequest, msgEventAlreadyStarted)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Successfully unregistered from event", nil)
}

// ListMine godoc
// @Summary List the current user's registrations
// @Description Returns a paginated list of the authenticated user's registrations with the related events.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 15, max 100)"
// @Success 200 {object} helpers.APIResponse "data is an array of registrations with events, meta contains pagination"
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /my-registrations [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)

	details, total, err := c.Service.ListForUser(r.Context(), actor, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if details == nil {
		details = []*domain.RegistrationDetail{}
	}

	meta := helpers.NewPaginationMeta(params.Page, params.PerPage, total)
	helpers.WriteJSONPaginated(w, http.StatusOK, "Registrations retrieved successfully", details, meta)
}

// ListForEvent godoc
// @Summary List registrations for an event
// @Description Returns a paginated list of registrations for the event with the related users. Admin only.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 15, max 100)"
// @Success 200 {object} helpers.APIResponse "data is an array of registrations with users, meta contains pagination"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "caller is not an admin"
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /registrations/event/{eventID} [get]
func (c *RegistrationController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "eventID")
	if !ok {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)

	details, total, err := c.Service.ListForEvent(r.Context(), actor, eventID, params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, "Only admins can view event registrations")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if details == nil {
		details = []*domain.RegistrationDetail{}
	}

	meta := helpers.NewPaginationMeta(params.Page, params.PerPage, total)
	helpers.WriteJSONPaginated(w, http.StatusOK, "Registrations retrieved successfully", details, meta)
}

// ListAll godoc
// @Summary List all registrations
// @Description Returns a paginated list of every registration with the related users and events. Admin only.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 15, max 100)"
// @Success 200 {object} helpers.APIResponse "data is an array of registrations, meta contains pagination"
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "caller is not an admin"
// @Failure 500 {object} helpers.APIResponse
// @Router /registrations/all [get]
func (c *RegistrationController) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)

	details, total, err := c.Service.ListAll(r.Context(), actor, params)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, "Only admins can view all registrations")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if details == nil {
		details = []*domain.RegistrationDetail{}
	}

	meta := helpers.NewPaginationMeta(params.Page, params.PerPage, total)
	helpers.WriteJSONPaginated(w, http.StatusOK, "Registrations retrieved successfully", details, meta)
}
