package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditPlan struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Slug         string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Service      string    `gorm:"type:varchar(30);not null"`
	CreditAmount int       `gorm:"not null"`
	Price        float64   `gorm:"not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (CreditPlan) TableName() string {
	return "credit_plans"
}
