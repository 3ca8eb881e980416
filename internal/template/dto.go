// AngelaMos | 2026
// dto.go

package template

import (
	"encoding/json"
	"time"
)

type CreateTemplateRequest struct {
	Name        string          `json:"name"        validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Fields      []Field         `json:"fields"      validate:"required,min=1,max=50,dive"`
	Design      json.RawMessage `json:"design"      validate:"required"`
}

type UpdateTemplateRequest struct {
	Name        *string         `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Fields      []Field         `json:"fields,omitempty"      validate:"omitempty,min=1,max=50,dive"`
	Design      json.RawMessage `json:"design,omitempty"`
	Active      *bool           `json:"active,omitempty"`
}

type TemplateResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Fields      json.RawMessage `json:"fields"`
	Design      json.RawMessage `json:"design"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ListTemplatesParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListTemplatesParams) Normalize() {
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

func (p *ListTemplatesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToTemplateResponse(t *Template) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Fields:      t.Fields,
		Design:      t.Design,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTemplateResponseList(templates []Template) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, ToTemplateResponse(&t))
	}
	return responses
}
