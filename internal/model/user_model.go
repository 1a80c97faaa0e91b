package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Phone         string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Username      string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash  *string   `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'"`
	PhoneVerified bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
