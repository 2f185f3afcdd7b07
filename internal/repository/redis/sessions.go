package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	sessiondomain "yatra-app-go/internal/domain/session"
)

const sessionKeyPrefix = "yatra:session:"

// SessionStore keeps sessions in redis as JSON values with a TTL, so they
// are shared by every replica and survive restarts.
type SessionStore struct {
	client *goredis.Client
}

// Connect parses a redis:// URL and pings the server before returning.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, session sessiondomain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (sessiondomain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return sessiondomain.Session{}, sessiondomain.ErrSessionNotFound
		}
		return sessiondomain.Session{}, err
	}

	var session sessiondomain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return sessiondomain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
