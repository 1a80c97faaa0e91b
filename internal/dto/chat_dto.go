package dto

import (
	"time"

	"github.com/google/uuid"
)

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id                uuid.UUID      `json:"id"`
	Sender            string         `json:"sender"`
	Message           string         `json:"message"`
	Attachment        *AttachmentDTO `json:"attachment,omitempty"`
	AttachmentSummary *string        `json:"attachment_summary,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

type AttachmentDTO struct {
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
}

// SendChatRequest carries one user turn. SessionId accepts either an
// existing session UUID or the literal "auto" to start a fresh session.
type SendChatRequest struct {
	SessionId         string `json:"session_id" validate:"required"`
	Message           string `json:"message"`
	AttachmentPath    string `json:"attachment_path,omitempty"`
	AttachmentSummary string `json:"attachment_summary,omitempty"`
}

type SendChatResponse struct {
	SessionId        uuid.UUID `json:"session_id"`
	Title            string    `json:"title"`
	Reply            string    `json:"reply"`
	RemainingCredits int       `json:"remaining_credits"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

type CreateSessionRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

type CreateSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
