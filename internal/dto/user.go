package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// RegisterRequest is the body of POST /user/register
type RegisterRequest struct {
	Username string `json:"username" binding:"max=100"`
	Email    string `json:"email" binding:"max=255"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /user/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO is the sanitized view of the caller. It has no credential fields.
type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRefDTO is the public subset used when another record references a user.
type UserRefDTO struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// SessionDTO is returned by register and login
type SessionDTO struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"accessToken"`
}

// CurrentUserDTO is returned by GET /user/me
type CurrentUserDTO struct {
	User UserDTO `json:"user"`
}

// RefreshDTO is returned by POST /user/refresh
type RefreshDTO struct {
	AccessToken string `json:"accessToken"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// userRef falls back to the bare id when the reference was not populated.
func userRef(user models.User, id string) UserRefDTO {
	if user.ID == "" {
		return UserRefDTO{ID: id}
	}
	return UserRefDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
