package receiver

import (
	"time"

	"yatra-app-go/internal/domain/member"
)

// Cache holds receiver lists keyed by method; the empty method is the full list.
type Cache interface {
	GetByMethod(method member.PaymentMethod) ([]Receiver, bool)
	SetByMethod(method member.PaymentMethod, receivers []Receiver, ttl time.Duration)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByMethod(member.PaymentMethod) ([]Receiver, bool) {
	return nil, false
}

func (noopCache) SetByMethod(member.PaymentMethod, []Receiver, time.Duration) {}

func (noopCache) Clear() {}
