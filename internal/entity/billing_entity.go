package entity

import (
	"time"

	"github.com/google/uuid"
)

// CreditPlan is a purchasable credit pack for a single service.
type CreditPlan struct {
	Id           uuid.UUID
	Name         string
	Slug         string
	Service      string
	CreditAmount int
	Price        float64
	IsActive     bool
	CreatedAt    time.Time
}

type PurchaseStatus string

const (
	PurchaseStatusPending PurchaseStatus = "pending"
	PurchaseStatusSuccess PurchaseStatus = "success"
	PurchaseStatusFailed  PurchaseStatus = "failed"
)

type CreditPurchase struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	PlanId      uuid.UUID
	OrderId     string
	GrossAmount float64
	Status      PurchaseStatus
	PaymentURL  *string
	CreatedAt   time.Time
	PaidAt      *time.Time
}
