// AngelaMos | 2026
// service.go

package template

import (
	"context"
	"encoding/json"
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
	req CreateTemplateRequest,
) (*Template, error) {
	fields, err := json.Marshal(req.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode template fields: %w", err)
	}

	template := &Template{
		ID:          uuid.New().String(),
		EntityID:    entityID,
		Name:        req.Name,
		Description: req.Description,
		Fields:      fields,
		Design:      req.Design,
		Active:      true,
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

func (s *Service) Get(
	ctx context.Context,
	entityID, id string,
) (*Template, error) {
	return s.repo.GetByID(ctx, entityID, id)
}

func (s *Service) Update(
	ctx context.Context,
	entityID, id string,
	req UpdateTemplateRequest,
) (*Template, error) {
	template, err := s.repo.GetByID(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.Fields != nil {
		fields, err := json.Marshal(req.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode template fields: %w", err)
		}
		template.Fields = fields
	}
	if req.Design != nil {
		template.Design = req.Design
	}
	if req.Active != nil {
		template.Active = *req.Active
	}

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

func (s *Service) Delete(ctx context.Context, entityID, id string) error {
	return s.repo.Delete(ctx, entityID, id)
}

func (s *Service) List(
	ctx context.Context,
	entityID string,
	params ListTemplatesParams,
) ([]Template, int, error) {
	return s.repo.List(ctx, entityID, params)
}
