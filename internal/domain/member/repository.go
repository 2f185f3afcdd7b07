package member

import "context"

// Repository is the remote record store. Implementations report unique
// violations as ErrDuplicateMobile / ErrDuplicateBag.
type Repository interface {
	ListMembers(ctx context.Context) ([]Member, error)
	CreateMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, id string) (bool, error)
}
