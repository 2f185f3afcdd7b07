package member

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"yatra-app-go/pkg/logger"
)

// Registry is the in-memory mirror of the member table and the only writer
// to it. A mutation holds the write lock across validation, the store call
// and the mirror update, so uniqueness checks see every earlier mutation.
type Registry struct {
	repo Repository
	log  logger.Logger

	now   func() time.Time
	newID func() string

	mu      sync.RWMutex
	members []Member
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) {
		r.newID = newID
	}
}

func NewRegistry(repo Repository, log logger.Logger, opts ...Option) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	r := &Registry{
		repo:  repo,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the mirror with the store contents, ordered by name.
func (r *Registry) Load(ctx context.Context) error {
	members, err := r.repo.ListMembers(ctx)
	if err != nil {
		return &StoreError{Op: "list", Err: err}
	}

	r.mu.Lock()
	r.members = members
	r.mu.Unlock()

	r.log.Info("registry: loaded members", "count", len(members))
	return nil
}

// Close drops the mirror. Every mutation is written through, so nothing is pending.
func (r *Registry) Close() {
	r.mu.Lock()
	count := len(r.members)
	r.members = nil
	r.mu.Unlock()

	r.log.Info("registry: closed", "count", count)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Registry) All() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMembers(r.members)
}

func (r *Registry) Get(id string) (Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return Member{}, ErrMemberNotFound
	}
	return r.members[idx], nil
}

func (r *Registry) Add(ctx context.Context, draft Draft) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addLocked(ctx, draft)
}

func (r *Registry) addLocked(ctx context.Context, draft Draft) (Member, error) {
	draft = draft.normalized()
	if err := validateDraft(draft); err != nil {
		return Member{}, err
	}
	if r.mobileTaken(draft.MobileNumber, "") {
		return Member{}, duplicateError(ErrDuplicateMobile)
	}
	if r.bagTaken(draft.BagNumber, "") {
		return Member{}, duplicateError(ErrDuplicateBag)
	}

	created := draft.applyTo(Member{
		ID:        r.newID(),
		CreatedAt: r.now(),
	})

	if err := r.repo.CreateMember(ctx, &created); err != nil {
		if dup := duplicateError(err); dup != nil {
			return Member{}, dup
		}
		return Member{}, &StoreError{Op: "insert", Err: err}
	}

	r.insertLocked(created)
	return created, nil
}

// Update merges the patch into the current record and re-validates the result.
// Uniqueness is only re-checked for the mobile or bag number when it changes.
func (r *Registry) Update(ctx context.Context, id string, patch Patch) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return Member{}, ErrMemberNotFound
	}
	current := r.members[idx]

	draft := patch.apply(current).draft().normalized()
	return r.replaceLocked(ctx, idx, current, draft)
}

// TogglePayment flips PAID and UNPAID. Going to UNPAID clears the method and
// receiver; going to PAID takes them from the settlement.
func (r *Registry) TogglePayment(ctx context.Context, id string, settlement Settlement) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return Member{}, ErrMemberNotFound
	}
	current := r.members[idx]
	draft := current.draft()

	switch current.PaymentStatus {
	case PaymentPaid:
		draft.PaymentStatus = PaymentUnpaid
		draft.PaymentMethod = MethodNone
		draft.PaymentReceiver = ""
	default:
		method := PaymentMethod(strings.ToUpper(strings.TrimSpace(string(settlement.Method))))
		receiver := strings.TrimSpace(settlement.Receiver)
		if !method.Settles() || receiver == "" {
			return Member{}, &ValidationError{Field: "payment_method", Message: ErrSettlementRequired.Error(), Err: ErrSettlementRequired}
		}
		draft.PaymentStatus = PaymentPaid
		draft.PaymentMethod = method
		draft.PaymentReceiver = receiver
	}

	return r.replaceLocked(ctx, idx, current, draft.normalized())
}

func (r *Registry) replaceLocked(ctx context.Context, idx int, current Member, draft Draft) (Member, error) {
	if err := validateDraft(draft); err != nil {
		return Member{}, err
	}
	if draft.MobileNumber != current.MobileNumber && r.mobileTaken(draft.MobileNumber, current.ID) {
		return Member{}, duplicateError(ErrDuplicateMobile)
	}
	if draft.BagNumber != current.BagNumber && r.bagTaken(draft.BagNumber, current.ID) {
		return Member{}, duplicateError(ErrDuplicateBag)
	}

	updated := draft.applyTo(current)
	if err := r.repo.UpdateMember(ctx, &updated); err != nil {
		if dup := duplicateError(err); dup != nil {
			return Member{}, dup
		}
		return Member{}, &StoreError{Op: "update", Err: err}
	}

	if updated.Name == current.Name {
		r.members[idx] = updated
	} else {
		r.members = append(r.members[:idx], r.members[idx+1:]...)
		r.insertLocked(updated)
	}
	return updated, nil
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return ErrMemberNotFound
	}

	deleted, err := r.repo.DeleteMember(ctx, id)
	if err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	if !deleted {
		r.log.Warn("registry: member missing from store, dropping from mirror", "member_id", id)
	}

	r.members = append(r.members[:idx], r.members[idx+1:]...)
	return nil
}

// insertLocked keeps the mirror in the store's list order: name, then creation time.
func (r *Registry) insertLocked(m Member) {
	idx := sort.Search(len(r.members), func(i int) bool {
		return listedBefore(m, r.members[i])
	})
	r.members = append(r.members, Member{})
	copy(r.members[idx+1:], r.members[idx:])
	r.members[idx] = m
}

func listedBefore(a, b Member) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func (r *Registry) indexOf(id string) int {
	for i := range r.members {
		if r.members[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) mobileTaken(mobile, excludeID string) bool {
	for i := range r.members {
		if r.members[i].ID != excludeID && r.members[i].MobileNumber == mobile {
			return true
		}
	}
	return false
}

func (r *Registry) bagTaken(bag, excludeID string) bool {
	for i := range r.members {
		if r.members[i].ID != excludeID && r.members[i].BagNumber == bag {
			return true
		}
	}
	return false
}

func cloneMembers(members []Member) []Member {
	result := make([]Member, len(members))
	copy(result, members)
	return result
}
