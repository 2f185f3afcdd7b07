package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"yatra-app-go/internal/domain/access"
	"yatra-app-go/internal/domain/auth"
)

const issuer = "yatra-app"

// Claims ties a bearer token to a stored session through the token id.
type Claims struct {
	jwt.RegisteredClaims
	Role access.Role `json:"role"`
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(store Store, secret []byte, ttl time.Duration, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	m := &Manager{
		store:  store,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Start opens a session for the identity and returns it with its bearer token.
func (m *Manager) Start(ctx context.Context, identity auth.Identity) (Session, string, error) {
	now := m.now().UTC().Truncate(time.Second)
	s := Session{
		ID:           uuid.NewString(),
		Role:         identity.Role,
		Name:         identity.Name,
		MobileNumber: identity.MobileNumber,
		MemberID:     identity.MemberID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Issuer:    issuer,
			Subject:   subject(identity),
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		Role: s.Role,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return Session{}, "", fmt.Errorf("sign token: %w", err)
	}

	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return Session{}, "", fmt.Errorf("save session: %w", err)
	}
	return s, signed, nil
}

// Resolve verifies the token and loads its session. A token whose session
// was ended is rejected even before it expires.
func (m *Manager) Resolve(ctx context.Context, tokenString string) (Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return Session{}, ErrInvalidToken
	}

	s, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if s.Role != claims.Role || s.Expired(m.now()) {
		return Session{}, ErrInvalidToken
	}
	return s, nil
}

// End drops the session; its token stops resolving.
func (m *Manager) End(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func subject(identity auth.Identity) string {
	if identity.MemberID != "" {
		return identity.MemberID
	}
	return identity.Role.String()
}
