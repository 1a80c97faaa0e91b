package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is a conversation thread owned by a single user. UpdatedAt
// doubles as the recency key for session listings; every message exchange
// bumps it.
type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
