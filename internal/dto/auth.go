package dto

import (
	"time"

	"github.com/yukikurage/todo-management-api/internal/models"
)

type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,notblank,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the body of PUT /api/user. Absent fields are unchanged.
type UpdateProfileRequest struct {
	Name                 *string `json:"name" binding:"omitnil,notblank,max=255"`
	Email                *string `json:"email" binding:"omitnil,email,max=255"`
	Password             *string `json:"password" binding:"omitnil,min=8,max=72"`
	PasswordConfirmation *string `json:"password_confirmation" binding:"omitnil,eqfield=Password"`
}

type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type AuthResponse struct {
	User        UserDTO   `json:"user"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
