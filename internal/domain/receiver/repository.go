package receiver

import (
	"context"

	"yatra-app-go/internal/domain/member"
)

// Repository reports a duplicate (name, method) pair as ErrReceiverExists.
type Repository interface {
	ListReceivers(ctx context.Context, method member.PaymentMethod) ([]Receiver, error)
	CreateReceiver(ctx context.Context, receiver *Receiver) error
	DeleteReceiver(ctx context.Context, name string, method member.PaymentMethod) (bool, error)
}
