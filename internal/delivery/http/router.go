package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Event browsing is public; registrations and event management require a Bearer token.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/register", authController.Register)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("GET /events/upcoming", eventController.ListUpcoming)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetByID)
	mux.HandleFunc("POST /events", auth(eventController.Create))
	mux.HandleFunc("PUT /events/{eventID}", auth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))
	mux.HandleFunc("GET /categories", eventController.ListCategories)

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/register", auth(registrationController.Register))
	mux.HandleFunc("GET /events/{eventID}/can-register", auth(registrationController.CanRegister))
	mux.HandleFunc("GET /registrations/check/{eventID}", auth(registrationController.Check))
	mux.HandleFunc("DELETE /registrations/unregister/{eventID}", auth(registrationController.Unregister))
	mux.HandleFunc("DELETE /registrations/{registrationID}", auth(registrationController.Cancel))
	mux.HandleFunc("GET /my-registrations", auth(registrationController.ListMine))
	mux.HandleFunc("GET /registrations/event/{eventID}", auth(registrationController.ListForEvent))
	mux.HandleFunc("GET /registrations/all", auth(registrationController.ListAll))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
