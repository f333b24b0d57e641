package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// Register godoc
// @Summary Register a new user account
// @Description Creates a user with the "user" role. Admin accounts are provisioned separately.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.RegisterRequest true "Name, email, and password"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "validation failure"
// @Failure 409 {object} helpers.APIResponse "email already in use"
// @Failure 500 {object} helpers.APIResponse
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.Service.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, "Email already in use")
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

	helpers.WriteJSONSuccess(w, http.StatusCreated, "User registered successfully", user)
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the data payload for POST /auth/login (200).
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login godoc
// @Summary Log in with email and password
// @Description Returns a Bearer token and the user on success. Unknown email and wrong password both respond 401 with the same message.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.LoginRequest true "Email and password"
// @Success 200 {object} helpers.APIResponse "data contains token and user"
// @Failure 400 {object} helpers.APIResponse "validation failure"
// @Failure 401 {object} helpers.APIResponse "invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, "Login successful", LoginResponse{Token: token, User: user})
}
