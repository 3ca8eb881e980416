// AngelaMos | 2026
// service.go

package supplier

import (
	"context"
	"strings"

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
	req CreateSupplierRequest,
) (*Supplier, error) {
	supplier := &Supplier{
		ID:       uuid.New().String(),
		EntityID: entityID,
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Phone:    req.Phone,
		TaxID:    req.TaxID,
		Address:  req.Address,
		Status:   StatusPending,
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

func (s *Service) Get(
	ctx context.Context,
	entityID, id string,
) (*Supplier, error) {
	return s.repo.GetByID(ctx, entityID, id)
}

func (s *Service) Update(
	ctx context.Context,
	entityID, id string,
	req UpdateSupplierRequest,
) (*Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Email != nil {
		supplier.Email = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.TaxID != nil {
		supplier.TaxID = *req.TaxID
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// Review moves a supplier to APPROVED or REJECTED.
func (s *Service) Review(
	ctx context.Context,
	entityID, id, status string,
) (*Supplier, error) {
	if err := s.repo.UpdateStatus(ctx, entityID, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, entityID, id)
}

func (s *Service) Delete(ctx context.Context, entityID, id string) error {
	return s.repo.Delete(ctx, entityID, id)
}

func (s *Service) List(
	ctx context.Context,
	entityID string,
	params ListSuppliersParams,
) ([]Supplier, int, error) {
	return s.repo.List(ctx, entityID, params)
}
