package dto

import "github.com/google/uuid"

type SignupRequest struct {
	Phone string `json:"phone" validate:"required,min=10,max=15"`
}

type VerifyOtpRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Code     string `json:"code" validate:"required,len=6"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest accepts either a username or a phone number in Login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	UserId uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

type MeResponse struct {
	UserId   uuid.UUID `json:"user_id"`
	Phone    string    `json:"phone"`
	Username string    `json:"username"`
}
