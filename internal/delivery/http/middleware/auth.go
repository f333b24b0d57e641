package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// SetActor returns a context with the authenticated actor set. Used by auth middleware.
func SetActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor from the context, if present.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the actor in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, "missing token")
				return
			}
			actor, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetActor(r.Context(), actor))
			next(w, r)
		}
	}
}
