package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// MessagesChronological orders a message listing oldest first, with the
// primary key as tie-break for rows created in the same instant.
type MessagesChronological struct{}

func (s MessagesChronological) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

// SessionsByRecency orders sessions by last activity, newest first.
type SessionsByRecency struct{}

func (s SessionsByRecency) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC")
}
