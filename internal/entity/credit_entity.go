package entity

import (
	"time"

	"github.com/google/uuid"
)

// CreditBalance is the consumable quota for one user on one service.
// Amount never goes below zero; deductions are conditional updates.
type CreditBalance struct {
	UserId    uuid.UUID
	Service   string
	Amount    int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type CreditTransactionType string

const (
	CreditTransactionGrant      CreditTransactionType = "grant"
	CreditTransactionSpend      CreditTransactionType = "spend"
	CreditTransactionRefund     CreditTransactionType = "refund"
	CreditTransactionAdjustment CreditTransactionType = "adjustment"
)

// CreditTransaction is an append-only audit row for every balance mutation.
type CreditTransaction struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      CreditTransactionType
	Service   string
	Amount    int
	RelatedId *uuid.UUID
	Notes     *string
	CreatedAt time.Time
}
