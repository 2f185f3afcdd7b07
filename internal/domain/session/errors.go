package session

import "errors"

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found")
	ErrMissingSecret   = errors.New("token secret is required")
)
