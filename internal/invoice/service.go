// AngelaMos | 2026
// service.go

package invoice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	entityID string,
	req CreateInvoiceRequest,
) (*Invoice, error) {
	invoice := &Invoice{
		ID:          uuid.New().String(),
		EntityID:    entityID,
		Number:      req.Number,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      StatusPending,
		Fields:      req.Fields,
	}
	if req.SupplierID != "" {
		invoice.SupplierID = sql.NullString{String: req.SupplierID, Valid: true}
	}
	if req.TemplateID != "" {
		invoice.TemplateID = sql.NullString{String: req.TemplateID, Valid: true}
	}
	if req.DueDate != nil {
		invoice.DueDate = sql.NullTime{Time: *req.DueDate, Valid: true}
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *Service) Get(ctx context.Context, entityID, id string) (*Invoice, error) {
	return s.repo.GetByID(ctx, entityID, id)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	entityID, id, status string,
) (*Invoice, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid invoice status %q", status)
	}

	if err := s.repo.UpdateStatus(ctx, entityID, id, status); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, entityID, id)
}

func (s *Service) SetArtifactURL(
	ctx context.Context,
	entityID, id, url string,
) error {
	return s.repo.SetArtifactURL(ctx, entityID, id, url)
}

func (s *Service) List(
	ctx context.Context,
	entityID string,
	params ListInvoicesParams,
) ([]Invoice, int, error) {
	return s.repo.List(ctx, entityID, params)
}

func (s *Service) CountByStatus(
	ctx context.Context,
	entityID string,
) (map[string]int, error) {
	return s.repo.CountByStatus(ctx, entityID)
}
