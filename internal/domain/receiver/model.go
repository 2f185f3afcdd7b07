package receiver

import (
	"time"

	"yatra-app-go/internal/domain/member"
)

// Receiver is a person authorised to collect payments made with one method.
type Receiver struct {
	ID        string               `gorm:"type:uuid;primaryKey"`
	Name      string               `gorm:"not null;uniqueIndex:payment_receivers_name_method_key"`
	Method    member.PaymentMethod `gorm:"type:varchar(8);not null;uniqueIndex:payment_receivers_name_method_key"`
	CreatedAt time.Time            `gorm:"autoCreateTime"`
}

func (Receiver) TableName() string {
	return "payment_receivers"
}
