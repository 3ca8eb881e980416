// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

type SessionUserResponse struct {
	ID                 string `json:"id"`
	EntityID           string `json:"entity_id,omitempty"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	ForcePasswordReset bool   `json:"force_password_reset"`
}

type AuthResponse struct {
	User      SessionUserResponse `json:"user"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
}
