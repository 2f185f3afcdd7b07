package receiver

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"yatra-app-go/internal/domain/access"
	"yatra-app-go/internal/domain/member"
)

const maxNameLength = 100

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository) *Service {
	return NewServiceWithCache(repo, nil, 0)
}

// NewServiceWithCache keeps listed receivers for ttl. Writes through this
// service clear the cache; a nil cache or non-positive ttl disables it.
func NewServiceWithCache(repo Repository, cache Cache, ttl time.Duration) *Service {
	if cache == nil || ttl <= 0 {
		cache = noopCache{}
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
	}
}

type input struct {
	Name   string               `json:"name"`
	Method member.PaymentMethod `json:"method"`
}

func (in input) validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, maxNameLength),
		),
		validation.Field(&in.Method,
			validation.Required.Error("method is required"),
			validation.In(member.MethodCash, member.MethodGPay).Error("must be CASH or GPAY"),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReceiver, err)
	}
	return nil
}

func normalize(name string, method member.PaymentMethod) input {
	return input{
		Name:   strings.TrimSpace(name),
		Method: member.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(method)))),
	}
}

func (s *Service) Add(ctx context.Context, name string, method member.PaymentMethod) (Receiver, error) {
	in := normalize(name, method)
	if err := in.validate(); err != nil {
		return Receiver{}, err
	}

	created := Receiver{
		ID:     uuid.NewString(),
		Name:   in.Name,
		Method: in.Method,
	}
	if err := s.repo.CreateReceiver(ctx, &created); err != nil {
		return Receiver{}, err
	}
	s.cache.Clear()
	return created, nil
}

// Delete removes the receiver. Callers that cannot see owner receivers get
// ErrReceiverNotFound for them, as if they did not exist.
func (s *Service) Delete(ctx context.Context, name string, method member.PaymentMethod, role access.Role) error {
	in := normalize(name, method)
	if err := in.validate(); err != nil {
		return err
	}
	if !role.SeesOwnerReceivers() && access.IsOwnerReserved(in.Name) {
		return ErrReceiverNotFound
	}

	deleted, err := s.repo.DeleteReceiver(ctx, in.Name, in.Method)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReceiverNotFound
	}
	s.cache.Clear()
	return nil
}

// List returns receiver names for the method, or for every method when
// method is empty. Owner receivers are left out for roles that may not see them.
func (s *Service) List(ctx context.Context, method member.PaymentMethod, role access.Role) ([]string, error) {
	method = member.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(method))))
	if method != "" && !method.Settles() {
		return nil, fmt.Errorf("%w: method must be CASH or GPAY", ErrInvalidReceiver)
	}

	receivers, ok := s.cache.GetByMethod(method)
	if !ok {
		var err error
		receivers, err = s.repo.ListReceivers(ctx, method)
		if err != nil {
			return nil, err
		}
		s.cache.SetByMethod(method, receivers, s.cacheTTL)
	}

	seen := make(map[string]struct{}, len(receivers))
	names := make([]string, 0, len(receivers))
	for _, r := range receivers {
		if !role.SeesOwnerReceivers() && access.IsOwnerReserved(r.Name) {
			continue
		}
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names, nil
}
