package session

import (
	"time"

	"yatra-app-go/internal/domain/access"
)

// Session is one logged in actor. It lives in the Store until it expires
// or the actor logs out.
type Session struct {
	ID           string      `json:"id"`
	Role         access.Role `json:"role"`
	Name         string      `json:"name"`
	MobileNumber string      `json:"mobile_number,omitempty"`
	MemberID     string      `json:"member_id,omitempty"`
	IssuedAt     time.Time   `json:"issued_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
