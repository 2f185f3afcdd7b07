package member

import (
	"context"
	"strings"

	"gorm.io/gorm"
	memberdomain "yatra-app-go/internal/domain/member"
	"yatra-app-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListMembers(ctx context.Context) ([]memberdomain.Member, error) {
	var members []memberdomain.Member
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *memberdomain.Member) error {
	return mapUnique(r.db.WithContext(ctx).Create(member).Error)
}

// UpdateMember writes every column except the id and creation time.
func (r *PostgresRepository) UpdateMember(ctx context.Context, member *memberdomain.Member) error {
	result := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("id = ?", member.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(member)
	if result.Error != nil {
		return mapUnique(result.Error)
	}
	if result.RowsAffected == 0 {
		return memberdomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&memberdomain.Member{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func mapUnique(err error) error {
	target, ok := postgres.UniqueViolation(err)
	if !ok {
		return err
	}
	switch {
	case strings.Contains(target, "mobile_number"):
		return memberdomain.ErrDuplicateMobile
	case strings.Contains(target, "bag_number"):
		return memberdomain.ErrDuplicateBag
	default:
		return err
	}
}
