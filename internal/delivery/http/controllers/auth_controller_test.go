package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

type mockAuthService struct {
	user  *domain.User
	token string
	err   error
}

func (m *mockAuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	return m.token, m.user, nil
}

func TestAuthController_Register_Success(t *testing.T) {
	svc := &mockAuthService{user: &domain.User{ID: 1, Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser}}
	ctrl := NewAuthController(discardLogger(), svc)

	body := `{"name": "Ana", "email": "ana@example.com", "password": "correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.Register(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Message != "User registered successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", resp.Data)
	}
	if _, leaked := data["password_hash"]; leaked {
		t.Fatal("password hash must not appear in the response")
	}
}

func TestAuthController_Register_MissingFields(t *testing.T) {
	ctrl := NewAuthController(discardLogger(), &mockAuthService{})

	body := `{"name": "", "email": "", "password": ""}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	ctrl := NewAuthController(discardLogger(), &mockAuthService{err: domain.ErrDuplicateEmail})

	body := `{"name": "Ana", "email": "ana@example.com", "password": "correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.Register(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestAuthController_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		user:  &domain.User{ID: 1, Email: "ana@example.com", Role: domain.RoleUser},
		token: "jwt-token",
	}
	ctrl := NewAuthController(discardLogger(), svc)

	body := `{"email": "ana@example.com", "password": "correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.Login(w, req)

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
	if data["token"] != "jwt-token" {
		t.Fatalf("expected token in response, got %v", data["token"])
	}
}

func TestAuthController_Login_InvalidCredentials(t *testing.T) {
	ctrl := NewAuthController(discardLogger(), &mockAuthService{err: errors.New("invalid credentials")})

	body := `{"email": "ana@example.com", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Message != "Invalid credentials" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}
