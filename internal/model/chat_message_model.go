package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	SenderType        string         `gorm:"type:varchar(20);not null"`
	Content           string         `gorm:"type:text;not null"`
	Attachment        datatypes.JSON `gorm:"type:jsonb"`
	AttachmentSummary *string        `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
