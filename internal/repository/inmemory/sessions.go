package inmemory

import (
	"context"
	"sync"
	"time"

	sessiondomain "yatra-app-go/internal/domain/session"
)

// SessionStore keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between replicas; use the redis store for that.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]sessionItem
	now   func() time.Time
}

type sessionItem struct {
	value     sessiondomain.Session
	expiresAt time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		items: make(map[string]sessionItem),
		now:   time.Now,
	}
}

func (c *SessionStore) Save(ctx context.Context, s sessiondomain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return c.Delete(ctx, s.ID)
	}

	c.mu.Lock()
	c.items[s.ID] = sessionItem{
		value:     s,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *SessionStore) Get(ctx context.Context, id string) (sessiondomain.Session, error) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return sessiondomain.Session{}, sessiondomain.ErrSessionNotFound
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[id]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, id)
		}
		c.mu.Unlock()
		return sessiondomain.Session{}, sessiondomain.ErrSessionNotFound
	}

	return item.value, nil
}

func (c *SessionStore) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (c *SessionStore) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, item := range c.items {
		if !item.expiresAt.After(now) {
			delete(c.items, id)
			removed++
		}
	}
	return removed
}

func (c *SessionStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
