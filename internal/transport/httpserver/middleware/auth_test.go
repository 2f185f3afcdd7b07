package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"yatra-app-go/internal/domain/access"
	sessiondomain "yatra-app-go/internal/domain/session"
)

type fakeResolver struct {
	sessions map[string]sessiondomain.Session
	err      error
}

func (f fakeResolver) Resolve(ctx context.Context, token string) (sessiondomain.Session, error) {
	if f.err != nil {
		return sessiondomain.Session{}, f.err
	}
	s, ok := f.sessions[token]
	if !ok {
		return sessiondomain.Session{}, sessiondomain.ErrInvalidToken
	}
	return s, nil
}

func newResolver() fakeResolver {
	return fakeResolver{sessions: map[string]sessiondomain.Session{
		"admin-token": {ID: "s-1", Role: access.RoleAdmin, Name: "Admin", ExpiresAt: time.Now().Add(time.Hour)},
		"user-token":  {ID: "s-2", Role: access.RoleUser, Name: "Ravi", MobileNumber: "9876543210"},
	}}
}

func protected(resolver SessionResolver, gate func(access.Role) bool) http.Handler {
	auth := NewSessionAuth(resolver, nil)
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFromContext(r.Context())
		_, _ = w.Write([]byte(s.Name))
	})
	return auth.Middleware(RequireRole(gate)(final))
}

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuthAndRoleGate(t *testing.T) {
	h := protected(newResolver(), access.Role.CanManageMembers)

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
		wantBody      string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authorization: "Basic admin-token", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", authorization: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "devotee forbidden", authorization: "Bearer user-token", wantStatus: http.StatusForbidden},
		{name: "admin allowed", authorization: "bearer admin-token", wantStatus: http.StatusOK, wantBody: "Admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.authorization)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestSessionAuthResolverFailure(t *testing.T) {
	h := protected(fakeResolver{err: errors.New("redis down")}, access.Role.CanManageMembers)

	rec := serve(h, "Bearer admin-token")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestRequireRoleWithoutSession(t *testing.T) {
	h := RequireRole(access.Role.CanViewDashboard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
