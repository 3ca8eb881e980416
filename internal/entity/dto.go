// AngelaMos | 2026
// dto.go

package entity

import (
	"time"
)

type CreateEntityRequest struct {
	Name         string `json:"name"          validate:"required,min=1,max=200"`
	Subdomain    string `json:"subdomain"     validate:"required,min=3,max=63,hostname_rfc1123"`
	BusinessType string `json:"business_type" validate:"omitempty,max=100"`
	ContactEmail string `json:"contact_email" validate:"required,email,max=255"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=50"`
	Address      string `json:"address"       validate:"omitempty,max=500"`
}

type UpdateEntityRequest struct {
	Name         *string `json:"name,omitempty"          validate:"omitempty,min=1,max=200"`
	BusinessType *string `json:"business_type,omitempty" validate:"omitempty,max=100"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,max=50"`
	Address      *string `json:"address,omitempty"       validate:"omitempty,max=500"`
}

type UpdateBrandingRequest struct {
	ThemeColor *string `json:"theme_color,omitempty" validate:"omitempty,hexcolor"`
	LogoURL    *string `json:"logo_url,omitempty"    validate:"omitempty,url,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE SUSPENDED"`
}

type EntityResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Subdomain    string    `json:"subdomain"`
	Status       string    `json:"status"`
	ThemeColor   string    `json:"theme_color"`
	LogoURL      string    `json:"logo_url"`
	BusinessType string    `json:"business_type"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListEntitiesParams struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

func (p *ListEntitiesParams) Normalize() {
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

func (p *ListEntitiesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToEntityResponse(e *Entity) EntityResponse {
	return EntityResponse{
		ID:           e.ID,
		Name:         e.Name,
		Subdomain:    e.Subdomain,
		Status:       e.Status,
		ThemeColor:   e.ThemeColor,
		LogoURL:      e.LogoURL,
		BusinessType: e.BusinessType,
		ContactEmail: e.ContactEmail,
		ContactPhone: e.ContactPhone,
		Address:      e.Address,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToEntityResponseList(entities []Entity) []EntityResponse {
	responses := make([]EntityResponse, 0, len(entities))
	for _, e := range entities {
		responses = append(responses, ToEntityResponse(&e))
	}
	return responses
}
