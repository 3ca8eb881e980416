// AngelaMos | 2026
// dto.go

package supplier

import (
	"time"
)

type CreateSupplierRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Phone   string `json:"phone"   validate:"omitempty,max=50"`
	TaxID   string `json:"tax_id"  validate:"omitempty,max=50"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name,omitempty"    validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email,omitempty"   validate:"omitempty,email,max=255"`
	Phone   *string `json:"phone,omitempty"   validate:"omitempty,max=50"`
	TaxID   *string `json:"tax_id,omitempty"  validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type ReviewSupplierRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListSuppliersParams struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

func (p *ListSuppliersParams) Normalize() {
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

func (p *ListSuppliersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToSupplierResponse(s *Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		TaxID:     s.TaxID,
		Address:   s.Address,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToSupplierResponseList(suppliers []Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		responses = append(responses, ToSupplierResponse(&s))
	}
	return responses
}
