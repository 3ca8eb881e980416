// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Name     string `json:"name"     validate:"required,min=1,max=200"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role"     validate:"required,oneof=ENTITY_ADMIN ENTITY_USER"`
}

type UpdateUserRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=ENTITY_ADMIN ENTITY_USER"`
}

type UserResponse struct {
	ID                 string    `json:"id"`
	EntityID           string    `json:"entity_id,omitempty"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	ForcePasswordReset bool      `json:"force_password_reset"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		EntityID:           u.EntityIDString(),
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		ForcePasswordReset: u.ForcePasswordReset,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
