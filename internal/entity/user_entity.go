package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id            uuid.UUID
	Phone         string
	Username      string
	PasswordHash  *string
	Status        UserStatus
	PhoneVerified bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
