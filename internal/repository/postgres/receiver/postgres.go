package receiver

import (
	"context"

	"gorm.io/gorm"
	memberdomain "yatra-app-go/internal/domain/member"
	receiverdomain "yatra-app-go/internal/domain/receiver"
	"yatra-app-go/internal/repository/postgres"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListReceivers returns every receiver when method is empty.
func (r *PostgresRepository) ListReceivers(ctx context.Context, method memberdomain.PaymentMethod) ([]receiverdomain.Receiver, error) {
	query := r.db.WithContext(ctx)
	if method != "" {
		query = query.Where("method = ?", method)
	}

	var receivers []receiverdomain.Receiver
	if err := query.Order("name asc").Order("method asc").Find(&receivers).Error; err != nil {
		return nil, err
	}
	return receivers, nil
}

func (r *PostgresRepository) CreateReceiver(ctx context.Context, receiver *receiverdomain.Receiver) error {
	err := r.db.WithContext(ctx).Create(receiver).Error
	if _, ok := postgres.UniqueViolation(err); ok {
		return receiverdomain.ErrReceiverExists
	}
	return err
}

func (r *PostgresRepository) DeleteReceiver(ctx context.Context, name string, method memberdomain.PaymentMethod) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("name = ? AND method = ?", name, method).
		Delete(&receiverdomain.Receiver{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
