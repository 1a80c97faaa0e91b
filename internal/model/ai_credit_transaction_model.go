package model

import (
	"time"

	"github.com/google/uuid"
)

// AiCreditTransaction is the append-only audit trail behind every balance
// mutation. Rows are written by the audit consumer, never by request
// handlers, so a lost row costs an audit entry but not the balance itself.
type AiCreditTransaction struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransactionType string     `gorm:"type:varchar(20);not null"`
	Service         string     `gorm:"type:varchar(30);not null;index"`
	Amount          int        `gorm:"not null"`
	RelatedId       *uuid.UUID `gorm:"type:uuid"`
	Notes           *string    `gorm:"type:text"`
	CreatedAt       time.Time  `gorm:"default:now();not null"`
}

func (AiCreditTransaction) TableName() string {
	return "ai_credit_transactions"
}
