// AngelaMos | 2026
// dto.go

package invoice

import (
	"encoding/json"
	"time"
)

type CreateInvoiceRequest struct {
	SupplierID  string          `json:"supplier_id"  validate:"omitempty,uuid4"`
	TemplateID  string          `json:"template_id"  validate:"omitempty,uuid4"`
	Number      string          `json:"number"       validate:"required,min=1,max=100"`
	AmountCents int64           `json:"amount_cents" validate:"required,gt=0"`
	Currency    string          `json:"currency"     validate:"required,iso4217"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Fields      json.RawMessage `json:"fields,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID CANCELLED OVERDUE"`
}

type InvoiceResponse struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	TemplateID  string          `json:"template_id,omitempty"`
	Number      string          `json:"number"`
	AmountCents int64           `json:"amount_cents"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Fields      json.RawMessage `json:"fields,omitempty"`
	ArtifactURL string          `json:"artifact_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ListInvoicesParams struct {
	Page       int
	PageSize   int
	Status     string
	SupplierID string
	Search     string
}

func (p *ListInvoicesParams) Normalize() {
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

func (p *ListInvoicesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToInvoiceResponse(inv *Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		AmountCents: inv.AmountCents,
		Currency:    inv.Currency,
		Status:      inv.Status,
		Fields:      inv.Fields,
		ArtifactURL: inv.ArtifactURL,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if inv.SupplierID.Valid {
		resp.SupplierID = inv.SupplierID.String
	}
	if inv.TemplateID.Valid {
		resp.TemplateID = inv.TemplateID.String
	}
	if inv.DueDate.Valid {
		t := inv.DueDate.Time
		resp.DueDate = &t
	}
	return resp
}

func ToInvoiceResponseList(invoices []Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, ToInvoiceResponse(&inv))
	}
	return responses
}
