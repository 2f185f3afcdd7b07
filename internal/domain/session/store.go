package session

import (
	"context"
	"time"
)

// Store keeps live sessions. Get returns ErrSessionNotFound for unknown or
// expired ids.
type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
