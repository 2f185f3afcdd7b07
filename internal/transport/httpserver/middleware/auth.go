package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"yatra-app-go/internal/domain/access"
	sessiondomain "yatra-app-go/internal/domain/session"
	"yatra-app-go/pkg/logger"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (sessiondomain.Session, error)
}

// SessionAuth turns a bearer token into the session it was issued for.
type SessionAuth struct {
	sessions SessionResolver
	log      logger.Logger
}

type contextKey int

const sessionKey contextKey = iota

func NewSessionAuth(sessions SessionResolver, log logger.Logger) *SessionAuth {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionAuth{
		sessions: sessions,
		log:      log,
	}
}

func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		s, err := a.sessions.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, sessiondomain.ErrInvalidToken) {
				unauthorized(w)
				return
			}
			a.log.InternalError("auth: resolve session failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		ctx := WithSession(r.Context(), s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets the request through only when the session role passes gate.
// It must run after SessionAuth.Middleware.
func RequireRole(gate func(access.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !gate(s.Role) {
				writeError(w, http.StatusForbidden, "forbidden", "not allowed for role "+s.Role.String())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithSession(ctx context.Context, s sessiondomain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (sessiondomain.Session, bool) {
	value := ctx.Value(sessionKey)
	s, ok := value.(sessiondomain.Session)
	if !ok || s.ID == "" {
		return sessiondomain.Session{}, false
	}
	return s, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
