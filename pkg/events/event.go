package events

import "time"

// Event is the flat envelope pushed onto the external bus. Subject routing
// keys off Type; Data stays schemaless so downstream consumers can evolve
// without coordinating releases with this service.
type Event struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
