package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	actor domain.Actor
	err   error
}

func (f *fakeTokenVerifier) Verify(_ string) (domain.Actor, error) {
	if f.err != nil {
		return domain.Actor{}, f.err
	}
	return f.actor, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name       string
		authHeader string
		verifier   domain.TokenVerifier
		wantStatus int
		nextCalled bool
		wantActor  domain.Actor
	}{
		{
			name:       "valid token sets actor and calls next",
			authHeader: "Bearer valid-token",
			verifier:   &fakeTokenVerifier{actor: domain.Actor{UserID: 42, Role: domain.RoleAdmin}},
			wantStatus: http.StatusOK,
			nextCalled: true,
			wantActor:  domain.Actor{UserID: 42, Role: domain.RoleAdmin},
		},
		{
			name:       "missing authorization header",
			authHeader: "",
			verifier:   &fakeTokenVerifier{actor: domain.Actor{UserID: 42}},
			wantStatus: http.StatusUnauthorized,
			nextCalled: false,
		},
		{
			name:       "invalid authorization format no Bearer prefix",
			authHeader: "Basic abc",
			verifier:   &fakeTokenVerifier{actor: domain.Actor{UserID: 42}},
			wantStatus: http.StatusUnauthorized,
			nextCalled: false,
		},
		{
			name:       "empty token after Bearer",
			authHeader: "Bearer ",
			verifier:   &fakeTokenVerifier{actor: domain.Actor{UserID: 42}},
			wantStatus: http.StatusUnauthorized,
			nextCalled: false,
		},
		{
			name:       "verifier returns error",
			authHeader: "Bearer bad-token",
			verifier:   &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			wantStatus: http.StatusUnauthorized,
			nextCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedActor domain.Actor
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				actor, ok := ActorFromContext(r.Context())
				if ok {
					capturedActor = actor
				}
				w.WriteHeader(http.StatusOK)
			})
			wrap := RequireAuth(tt.verifier, logger)
			handler := wrap(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/my-registrations", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantActor, capturedActor, "actor in context")
			}
			if tt.wantStatus != http.StatusOK {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				assert.False(t, envelope.Success)
				assert.NotEmpty(t, envelope.Message)
			}
		})
	}
}
