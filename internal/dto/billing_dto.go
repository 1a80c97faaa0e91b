package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreditPlanDTO struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Service      string    `json:"service"`
	CreditAmount int       `json:"credit_amount"`
	Price        float64   `json:"price"`
}

type CheckoutRequest struct {
	PlanSlug string `json:"plan_slug" validate:"required"`
}

type CheckoutResponse struct {
	OrderId    string `json:"order_id"`
	PaymentURL string `json:"payment_url"`
}

type PurchaseDTO struct {
	Id          uuid.UUID  `json:"id"`
	OrderId     string     `json:"order_id"`
	GrossAmount float64    `json:"gross_amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// MidtransNotification is the payload midtrans posts to the webhook.
type MidtransNotification struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}
