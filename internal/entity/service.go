// AngelaMos | 2026
// service.go

package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/billforge/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateEntityRequest,
) (*Entity, error) {
	entity := &Entity{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Subdomain:    strings.ToLower(req.Subdomain),
		Status:       StatusActive,
		BusinessType: req.BusinessType,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Entity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateEntityRequest,
) (*Entity, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.BusinessType != nil {
		entity.BusinessType = *req.BusinessType
	}
	if req.ContactEmail != nil {
		entity.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		entity.ContactPhone = *req.ContactPhone
	}
	if req.Address != nil {
		entity.Address = *req.Address
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *Service) UpdateBranding(
	ctx context.Context,
	id string,
	req UpdateBrandingRequest,
) (*Entity, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ThemeColor != nil {
		entity.ThemeColor = *req.ThemeColor
	}
	if req.LogoURL != nil {
		entity.LogoURL = *req.LogoURL
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Entity, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid entity status %q", status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListEntitiesParams,
) ([]Entity, int, error) {
	return s.repo.List(ctx, params)
}

// ResolveSubdomain implements middleware.TenantResolver. Suspended and
// inactive tenants still resolve; the lifecycle gate downstream decides
// what callers get to do with them.
func (s *Service) ResolveSubdomain(
	ctx context.Context,
	subdomain string,
) (*middleware.TenantContext, error) {
	entity, err := s.repo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}

	return &middleware.TenantContext{
		EntityID:  entity.ID,
		Subdomain: entity.Subdomain,
		Name:      entity.Name,
		Active:    entity.IsActive(),
	}, nil
}
