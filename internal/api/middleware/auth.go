package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kanbanboard/kanban-api/internal/api/shared"
	"github.com/kanbanboard/kanban-api/internal/platform/logger"
	"github.com/kanbanboard/kanban-api/internal/redact"
	"github.com/kanbanboard/kanban-api/internal/service/auth"
)

// bearerPrefix is matched case-sensitively.
const bearerPrefix = "Bearer "

// AuthGate resolves the caller identity from a bearer token.
//
// Authenticate never rejects a request: it only attaches an identity when the
// token is valid. RequireAuth rejects requests that reach it without one.
type AuthGate struct {
	tokens auth.TokenService
	logger *slog.Logger
}

// NewAuthGate creates a new AuthGate with the given dependencies.
func NewAuthGate(tokens auth.TokenService, logger *slog.Logger) *AuthGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthGate{
		tokens: tokens,
		logger: logger.With(slog.String("component", "auth_gate")),
	}
}

// Authenticate attaches the caller's user id to the request context when a
// valid bearer token is present. Missing, malformed and invalid tokens leave
// the request anonymous, as does any failure during resolution.
func (g *AuthGate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if userID, ok := g.resolve(ctx, r.Header.Get("Authorization")); ok {
			ctx = WithUserID(ctx, userID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve returns the user id for a header value. Panics are recovered and
// logged so a broken token never takes the request down.
func (g *AuthGate) resolve(ctx context.Context, header string) (userID int64, ok bool) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	defer func() {
		if p := recover(); p != nil {
			log.Warn("cannot set user authentication",
				slog.String("error", redact.String(fmt.Sprint(p))))
			userID, ok = 0, false
		}
	}()

	if !strings.HasPrefix(header, bearerPrefix) {
		return 0, false
	}
	token := header[len(bearerPrefix):]
	if token == "" || !g.tokens.ValidateToken(ctx, token) {
		return 0, false
	}

	id, err := g.tokens.ExtractUserID(ctx, token)
	if err != nil {
		log.Warn("cannot set user authentication",
			slog.String("error", redact.Error(err)))
		return 0, false
	}
	return id, true
}

// RequireAuth rejects requests that carry no caller identity with 401.
func (g *AuthGate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUserID returns a copy of ctx carrying the caller's user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, shared.UserIDContextKey, userID)
}

// UserIDFromContext returns the caller's user id, if the request was authenticated.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(shared.UserIDContextKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
