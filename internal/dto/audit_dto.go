package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreditAuditMessage is the payload shipped over the internal bus for
// every balance mutation. The consumer turns it into an audit row.
type CreditAuditMessage struct {
	UserId     uuid.UUID  `json:"user_id"`
	Type       string     `json:"type"`
	Service    string     `json:"service"`
	Amount     int        `json:"amount"`
	RelatedId  *uuid.UUID `json:"related_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
