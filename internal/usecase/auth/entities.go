package auth

import (
	"time"

	"library-circulation/internal/domain/user"
)

type LoginInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type PatronLoginInput struct {
	RollNo   string `json:"roll_no"  validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=5,max=72"`
	Email           string `json:"email"            validate:"omitempty,email,max=255"`
	Phone           string `json:"phone"            validate:"max=20"`
}

type CreateUserInput struct {
	Username string    `json:"username" validate:"required,max=50"`
	Email    string    `json:"email"    validate:"omitempty,email,max=255"`
	Password string    `json:"password" validate:"required,min=8,max=72"`
	Role     user.Role `json:"role"     validate:"required,oneof=admin librarian"`
}

type TokenDTO struct {
	Token              string    `json:"token"`
	ExpiresAt          time.Time `json:"expires_at"`
	Actor              Actor     `json:"actor"`
	Name               string    `json:"name"`
	MustChangePassword bool      `json:"must_change_password,omitempty"`
}
