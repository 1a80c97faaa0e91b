package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventCreditSpent   = "CREDIT_SPENT"
	EventCreditGranted = "CREDIT_GRANTED"
	EventUserSignedUp  = "USER_SIGNED_UP"
)

// NewCreditSpent records a successful deduction against a service balance.
// RelatedId ties the spend back to the session or upload that caused it.
func NewCreditSpent(userId uuid.UUID, service string, amount int, relatedId *uuid.UUID, notes string) Event {
	data := map[string]interface{}{
		"user_id": userId.String(),
		"service": service,
		"amount":  amount,
		"notes":   notes,
	}
	if relatedId != nil {
		data["related_id"] = relatedId.String()
	}
	return Event{
		Type:       EventCreditSpent,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func NewCreditGranted(userId uuid.UUID, service string, amount int, notes string) Event {
	return Event{
		Type: EventCreditGranted,
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"service": service,
			"amount":  amount,
			"notes":   notes,
		},
		OccurredAt: time.Now(),
	}
}

func NewUserSignedUp(userId uuid.UUID, phone string) Event {
	return Event{
		Type: EventUserSignedUp,
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"phone":   phone,
		},
		OccurredAt: time.Now(),
	}
}
