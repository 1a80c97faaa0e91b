package model

import (
	"time"

	"github.com/google/uuid"
)

// UserCredit holds the live balance for one user on one service.
// The (user_id, service) pair is unique; deductions run as conditional
// updates so the amount can never be driven below zero.
type UserCredit struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Service   string    `gorm:"type:varchar(30);primaryKey"`
	Amount    int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserCredit) TableName() string {
	return "user_credits"
}
