package mapper

import (
	"time"

	"snochat-be/internal/entity"
	"snochat-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.User{
		Id:            u.Id,
		Phone:         u.Phone,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		Status:        entity.UserStatus(u.Status),
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	out := &model.User{
		Id:            u.Id,
		Phone:         u.Phone,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		Status:        string(u.Status),
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
	}
	if u.UpdatedAt != nil {
		out.UpdatedAt = *u.UpdatedAt
	}
	return out
}
