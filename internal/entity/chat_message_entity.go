package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attachment points at a stored upload tied to a user message.
type Attachment struct {
	Path      string `json:"path"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

type ChatMessage struct {
	Id                uuid.UUID
	ChatSessionId     uuid.UUID
	SenderType        string
	Content           string
	Attachment        *Attachment
	AttachmentSummary *string
	CreatedAt         time.Time
}
