package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditPurchase struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlanId      uuid.UUID  `gorm:"type:uuid;not null"`
	OrderId     string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	GrossAmount float64    `gorm:"not null"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentURL  *string    `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	PaidAt      *time.Time `gorm:""`
}

func (CreditPurchase) TableName() string {
	return "credit_purchases"
}
