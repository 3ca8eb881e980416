// AngelaMos | 2026
// dto.go

package registration

import (
	"time"
)

type SubmitRequest struct {
	CompanyName  string `json:"company_name"  validate:"required,min=1,max=200"`
	Subdomain    string `json:"subdomain"     validate:"required,min=3,max=63,hostname_rfc1123"`
	BusinessType string `json:"business_type" validate:"omitempty,max=100"`
	ContactName  string `json:"contact_name"  validate:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" validate:"required,email,max=255"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=50"`
	Address      string `json:"address"       validate:"omitempty,max=500"`
}

type DeclineRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

type ApproveResponse struct {
	Request       RequestResponse `json:"request"`
	EntityID      string          `json:"entity_id"`
	OwnerUserID   string          `json:"owner_user_id"`
	OwnerEmail    string          `json:"owner_email"`
	OwnerPassword string          `json:"owner_password"`
}

type RequestResponse struct {
	ID            string     `json:"id"`
	CompanyName   string     `json:"company_name"`
	Subdomain     string     `json:"subdomain"`
	BusinessType  string     `json:"business_type"`
	ContactName   string     `json:"contact_name"`
	ContactEmail  string     `json:"contact_email"`
	ContactPhone  string     `json:"contact_phone"`
	Address       string     `json:"address"`
	Status        string     `json:"status"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	DeclineReason string     `json:"decline_reason,omitempty"`
	EntityID      string     `json:"entity_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ListRequestsParams struct {
	Page     int
	PageSize int
	Status   string
}

func (p *ListRequestsParams) Normalize() {
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

func (p *ListRequestsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToRequestResponse(r *Request) RequestResponse {
	resp := RequestResponse{
		ID:           r.ID,
		CompanyName:  r.CompanyName,
		Subdomain:    r.Subdomain,
		BusinessType: r.BusinessType,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Address:      r.Address,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
	if r.ReviewedBy.Valid {
		resp.ReviewedBy = r.ReviewedBy.String
	}
	if r.ReviewedAt.Valid {
		t := r.ReviewedAt.Time
		resp.ReviewedAt = &t
	}
	if r.DeclineReason.Valid {
		resp.DeclineReason = r.DeclineReason.String
	}
	if r.EntityID.Valid {
		resp.EntityID = r.EntityID.String
	}
	return resp
}

func ToRequestResponseList(requests []Request) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, ToRequestResponse(&r))
	}
	return responses
}
