package member

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"
	"time"
)

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[string]Member
	failOn  string
	creates int
}

func newFakeMemberRepo(seed ...Member) *fakeMemberRepo {
	repo := &fakeMemberRepo{members: make(map[string]Member)}
	for _, m := range seed {
		repo.members[m.ID] = m
	}
	return repo
}

func (r *fakeMemberRepo) ListMembers(ctx context.Context) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "list" {
		return nil, errors.New("connection refused")
	}
	result := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeMemberRepo) CreateMember(ctx context.Context, member *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "create" {
		return errors.New("connection refused")
	}
	for _, existing := range r.members {
		if existing.MobileNumber == member.MobileNumber {
			return ErrDuplicateMobile
		}
	}
	r.creates++
	r.members[member.ID] = *member
	return nil
}

func (r *fakeMemberRepo) UpdateMember(ctx context.Context, member *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "update" {
		return errors.New("connection refused")
	}
	r.members[member.ID] = *member
	return nil
}

func (r *fakeMemberRepo) DeleteMember(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "delete" {
		return false, errors.New("connection refused")
	}
	_, ok := r.members[id]
	delete(r.members, id)
	return ok, nil
}

func newTestRegistry(t *testing.T, repo *fakeMemberRepo) *Registry {
	t.Helper()
	seq := 0
	reg := NewRegistry(repo, nil,
		WithClock(func() time.Time { return time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("member-%d", seq)
		}),
	)
	if err := reg.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return reg
}

func unpaidDraft(name, mobile, bag string) Draft {
	return Draft{
		Name:         name,
		MobileNumber: mobile,
		BagNumber:    bag,
		BusNumber:    "1",
		Amount:       DefaultAmount,
	}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		created, err := reg.Add(ctx, unpaidDraft(fmt.Sprintf("Devotee %d", i), fmt.Sprintf("98765432%02d", i), fmt.Sprintf("B-%d", i)))
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if _, dup := seen[created.ID]; dup {
			t.Fatalf("duplicate id %q", created.ID)
		}
		seen[created.ID] = struct{}{}
		if created.CreatedAt.IsZero() {
			t.Fatalf("expected created_at to be set")
		}
		if created.PaymentStatus != PaymentUnpaid || created.PaymentMethod != MethodNone {
			t.Fatalf("expected unpaid defaults, got %s/%s", created.PaymentStatus, created.PaymentMethod)
		}
	}
	if reg.Len() != 5 {
		t.Fatalf("expected 5 members, got %d", reg.Len())
	}
}

func TestAddRejectsDuplicateMobileAndBag(t *testing.T) {
	repo := newFakeMemberRepo()
	reg := newTestRegistry(t, repo)
	ctx := context.Background()

	if _, err := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", "B-1")); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := reg.Add(ctx, unpaidDraft("Ravi Again", "9876543210", "B-2"))
	if !errors.Is(err, ErrDuplicateMobile) || !IsValidation(err) {
		t.Fatalf("expected duplicate mobile validation error, got %v", err)
	}

	_, err = reg.Add(ctx, unpaidDraft("Suresh", "9876500000", "B-1"))
	if !errors.Is(err, ErrDuplicateBag) || !IsValidation(err) {
		t.Fatalf("expected duplicate bag validation error, got %v", err)
	}

	if repo.creates != 1 {
		t.Fatalf("rejected adds must not reach the store, creates=%d", repo.creates)
	}
}

func TestAddValidatesFields(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		draft Draft
		field string
		err   error
	}{
		{name: "missing name", draft: unpaidDraft("", "9876543210", "B-1"), field: "name", err: ErrInvalidMember},
		{name: "short mobile", draft: unpaidDraft("Ravi", "98765", "B-1"), field: "mobile_number", err: ErrInvalidMember},
		{name: "letters in mobile", draft: unpaidDraft("Ravi", "98765abcde", "B-1"), field: "mobile_number", err: ErrInvalidMember},
		{name: "missing bag", draft: unpaidDraft("Ravi", "9876543210", " "), field: "bag_number", err: ErrInvalidMember},
		{
			name:  "paid without receiver",
			draft: Draft{Name: "Ravi", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "1", PaymentStatus: PaymentPaid, PaymentMethod: MethodCash},
			field: "payment_receiver",
			err:   ErrPaymentMismatch,
		},
		{
			name:  "paid with none",
			draft: Draft{Name: "Ravi", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "1", PaymentStatus: PaymentPaid, PaymentReceiver: "Guru"},
			field: "payment_method",
			err:   ErrPaymentMismatch,
		},
		{
			name:  "unpaid with method",
			draft: Draft{Name: "Ravi", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "1", PaymentMethod: MethodGPay},
			field: "payment_method",
			err:   ErrPaymentMismatch,
		},
		{
			name:  "unknown method",
			draft: Draft{Name: "Ravi", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "1", PaymentMethod: "CHEQUE"},
			field: "payment_method",
			err:   ErrInvalidMember,
		},
		{
			name:  "negative amount",
			draft: Draft{Name: "Ravi", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "1", Amount: -1},
			field: "amount",
			err:   ErrInvalidMember,
		},
		{
			name:  "amount beyond column range",
			draft: Draft{Name: "Ravi", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "1", Amount: math.MaxInt32 + 1},
			field: "amount",
			err:   ErrInvalidMember,
		},
		{
			name:  "discount beyond column range",
			draft: Draft{Name: "Ravi", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "1", Discount: math.MaxInt32 + 1},
			field: "discount",
			err:   ErrInvalidMember,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reg.Add(ctx, tc.draft)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%v)", tc.field, verr.Field, err)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
	if reg.Len() != 0 {
		t.Fatalf("expected no members, got %d", reg.Len())
	}
}

func TestAddAcceptsPaidRecord(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())

	created, err := reg.Add(context.Background(), Draft{
		Name:            "Ravi",
		MobileNumber:    "9876543210",
		BagNumber:       "B-1",
		BusNumber:       "2",
		PaymentStatus:   "paid",
		PaymentMethod:   "gpay",
		PaymentReceiver: " Guru Swamy ",
		Amount:          3000,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.PaymentStatus != PaymentPaid || created.PaymentMethod != MethodGPay || created.PaymentReceiver != "Guru Swamy" {
		t.Fatalf("unexpected payment fields: %+v", created)
	}
}

func TestStoreFailureLeavesMirrorUnchanged(t *testing.T) {
	repo := newFakeMemberRepo()
	reg := newTestRegistry(t, repo)
	ctx := context.Background()

	existing, err := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", "B-1"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	repo.failOn = "create"
	_, err = reg.Add(ctx, unpaidDraft("Suresh", "9876500000", "B-2"))
	var serr *StoreError
	if !errors.As(err, &serr) || serr.Op != "insert" {
		t.Fatalf("expected insert store error, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("mirror changed after failed insert, len=%d", reg.Len())
	}

	repo.failOn = "update"
	name := "Ravi Kumar"
	if _, err := reg.Update(ctx, existing.ID, Patch{Name: &name}); !errors.As(err, &serr) {
		t.Fatalf("expected store error, got %v", err)
	}
	current, _ := reg.Get(existing.ID)
	if current.Name != "Ravi" {
		t.Fatalf("mirror changed after failed update: %q", current.Name)
	}

	repo.failOn = "delete"
	if err := reg.Delete(ctx, existing.ID); !errors.As(err, &serr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("mirror changed after failed delete")
	}
}

func TestUpdateChecksUniquenessOnlyForChangedFields(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()

	first, _ := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", "B-1"))
	if _, err := reg.Add(ctx, unpaidDraft("Suresh", "9876500000", "B-2")); err != nil {
		t.Fatalf("add: %v", err)
	}

	sameMobile := "9876543210"
	bus := "4"
	updated, err := reg.Update(ctx, first.ID, Patch{MobileNumber: &sameMobile, BusNumber: &bus})
	if err != nil {
		t.Fatalf("update with unchanged mobile: %v", err)
	}
	if updated.BusNumber != "4" || updated.ID != first.ID || !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	taken := "B-2"
	if _, err := reg.Update(ctx, first.ID, Patch{BagNumber: &taken}); !errors.Is(err, ErrDuplicateBag) {
		t.Fatalf("expected duplicate bag, got %v", err)
	}
}

func TestMirrorStaysOrderedByName(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()

	zed, err := reg.Add(ctx, unpaidDraft("Zed", "9876543210", "B-1"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := reg.Add(ctx, unpaidDraft("Anu", "9876500000", "B-2")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := names(reg.Search(Filter{})); fmt.Sprint(got) != "[Anu Zed]" {
		t.Fatalf("expected name order after add, got %v", got)
	}

	renamed := "Aaron"
	if _, err := reg.Update(ctx, zed.ID, Patch{Name: &renamed}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := names(reg.All()); fmt.Sprint(got) != "[Aaron Anu]" {
		t.Fatalf("expected name order after rename, got %v", got)
	}
}

func TestUpdateRevalidatesMergedPayment(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()
	created, _ := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", "B-1"))

	paid := PaymentPaid
	if _, err := reg.Update(ctx, created.ID, Patch{PaymentStatus: &paid}); !errors.Is(err, ErrPaymentMismatch) {
		t.Fatalf("expected payment mismatch, got %v", err)
	}

	cash := MethodCash
	receiver := "Guru"
	updated, err := reg.Update(ctx, created.ID, Patch{PaymentStatus: &paid, PaymentMethod: &cash, PaymentReceiver: &receiver})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PaymentStatus != PaymentPaid {
		t.Fatalf("expected paid, got %s", updated.PaymentStatus)
	}
}

func TestUpdateUnknownMember(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	name := "x"
	if _, err := reg.Update(context.Background(), "missing", Patch{Name: &name}); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := reg.Delete(context.Background(), "missing"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTogglePaymentKeepsInvariant(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()
	created, _ := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", "B-1"))

	if _, err := reg.TogglePayment(ctx, created.ID, Settlement{}); !errors.Is(err, ErrSettlementRequired) {
		t.Fatalf("expected settlement required, got %v", err)
	}
	if _, err := reg.TogglePayment(ctx, created.ID, Settlement{Method: MethodNone, Receiver: "Guru"}); !errors.Is(err, ErrSettlementRequired) {
		t.Fatalf("expected settlement required for NONE, got %v", err)
	}

	paid, err := reg.TogglePayment(ctx, created.ID, Settlement{Method: "cash", Receiver: "Guru"})
	if err != nil {
		t.Fatalf("toggle to paid: %v", err)
	}
	if paid.PaymentStatus != PaymentPaid || paid.PaymentMethod != MethodCash || paid.PaymentReceiver != "Guru" {
		t.Fatalf("unexpected paid record: %+v", paid)
	}

	unpaid, err := reg.TogglePayment(ctx, created.ID, Settlement{})
	if err != nil {
		t.Fatalf("toggle to unpaid: %v", err)
	}
	if unpaid.PaymentStatus != PaymentUnpaid || unpaid.PaymentMethod != MethodNone || unpaid.PaymentReceiver != "" {
		t.Fatalf("toggle to unpaid must clear payment details: %+v", unpaid)
	}

	for _, m := range reg.All() {
		if err := checkPayment(m.PaymentStatus, m.PaymentMethod, m.PaymentReceiver); err != nil {
			t.Fatalf("invariant broken for %s: %v", m.ID, err)
		}
	}
}

func TestDeleteRemovesFromMirror(t *testing.T) {
	repo := newFakeMemberRepo()
	reg := newTestRegistry(t, repo)
	ctx := context.Background()
	created, _ := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", "B-1"))

	if err := reg.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := reg.Get(created.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected member gone, got %v", err)
	}
	if _, ok := repo.members[created.ID]; ok {
		t.Fatalf("expected member removed from store")
	}

	if _, err := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", "B-1")); err != nil {
		t.Fatalf("re-adding a deleted mobile should succeed: %v", err)
	}
}

func TestLoadFailure(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.failOn = "list"
	reg := NewRegistry(repo, nil)

	err := reg.Load(context.Background())
	var serr *StoreError
	if !errors.As(err, &serr) || serr.Op != "list" {
		t.Fatalf("expected list store error, got %v", err)
	}
}

func TestConcurrentAddsKeepUniqueness(t *testing.T) {
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := reg.Add(ctx, unpaidDraft("Ravi", "9876543210", fmt.Sprintf("B-%d", i)))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one add to win, got %d", succeeded)
	}
}
