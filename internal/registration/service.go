// AngelaMos | 2026
// service.go

package registration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/billforge/internal/core"
	"github.com/carterperez-dev/billforge/internal/entity"
	"github.com/carterperez-dev/billforge/internal/middleware"
	"github.com/carterperez-dev/billforge/internal/user"
)

type Service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) *Service {
	return &Service{repo: repo, db: db}
}

func (s *Service) Submit(
	ctx context.Context,
	req SubmitRequest,
) (*Request, error) {
	request := &Request{
		ID:           uuid.New().String(),
		CompanyName:  req.CompanyName,
		Subdomain:    strings.ToLower(req.Subdomain),
		BusinessType: req.BusinessType,
		ContactName:  req.ContactName,
		ContactEmail: strings.ToLower(req.ContactEmail),
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListRequestsParams,
) ([]Request, int, error) {
	return s.repo.List(ctx, params)
}

// Approve provisions the tenant in one transaction: the entity row, its
// owner account, and the request's terminal state either all land or
// none do. The owner gets a generated password and must replace it on
// first login.
func (s *Service) Approve(
	ctx context.Context,
	id, reviewedBy string,
) (*ApproveResponse, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.IsPending() {
		return nil, fmt.Errorf("approve registration: %w", core.ErrConflict)
	}

	tempPassword, err := core.GenerateSecureToken(12)
	if err != nil {
		return nil, fmt.Errorf("generate owner password: %w", err)
	}

	hash, err := core.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("hash owner password: %w", err)
	}

	newEntity := &entity.Entity{
		ID:           uuid.New().String(),
		Name:         request.CompanyName,
		Subdomain:    request.Subdomain,
		Status:       entity.StatusActive,
		BusinessType: request.BusinessType,
		ContactEmail: request.ContactEmail,
		ContactPhone: request.ContactPhone,
		Address:      request.Address,
	}

	owner := &user.User{
		ID:                 uuid.New().String(),
		EntityID:           sql.NullString{String: newEntity.ID, Valid: true},
		Email:              request.ContactEmail,
		Name:               request.ContactName,
		PasswordHash:       hash,
		Role:               middleware.RoleEntityAdmin,
		ForcePasswordReset: true,
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := entity.NewRepository(tx).Create(ctx, newEntity); err != nil {
			return err
		}
		if err := user.NewRepository(tx).Create(ctx, owner); err != nil {
			return err
		}
		return s.repo.MarkApproved(ctx, tx, request.ID, reviewedBy, newEntity.ID)
	})
	if err != nil {
		return nil, err
	}

	request, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ApproveResponse{
		Request:       ToRequestResponse(request),
		EntityID:      newEntity.ID,
		OwnerUserID:   owner.ID,
		OwnerEmail:    owner.Email,
		OwnerPassword: tempPassword,
	}, nil
}

func (s *Service) Decline(
	ctx context.Context,
	id, reviewedBy, reason string,
) (*Request, error) {
	if err := s.repo.MarkDeclined(ctx, id, reviewedBy, reason); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
