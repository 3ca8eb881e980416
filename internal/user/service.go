// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/billforge/internal/auth"
	"github.com/carterperez-dev/billforge/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create provisions a user inside one tenant. Invited users log in with
// the password the admin set and are forced to replace it on first use.
func (s *Service) Create(
	ctx context.Context,
	entityID string,
	req CreateUserRequest,
) (*User, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:                 uuid.New().String(),
		EntityID:           sql.NullString{String: entityID, Valid: true},
		Email:              strings.ToLower(req.Email),
		Name:               req.Name,
		PasswordHash:       hash,
		Role:               req.Role,
		ForcePasswordReset: true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Get(ctx context.Context, entityID, id string) (*User, error) {
	return s.repo.GetByID(ctx, entityID, id)
}

func (s *Service) Update(
	ctx context.Context,
	entityID, id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Delete(ctx context.Context, entityID, id string) error {
	return s.repo.Delete(ctx, entityID, id)
}

func (s *Service) List(
	ctx context.Context,
	entityID string,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, entityID, params)
}

// GetByEmail implements auth.UserProvider.
func (s *Service) GetByEmail(
	ctx context.Context,
	entityID, email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, entityID, email)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

// GetByID implements auth.UserProvider. Unscoped on purpose: the
// session already binds the caller to this id.
func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByIDAny(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

// UpdatePasswordClearReset implements auth.UserProvider.
func (s *Service) UpdatePasswordClearReset(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePasswordClearReset(ctx, userID, passwordHash)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:                 u.ID,
		EntityID:           u.EntityIDString(),
		Email:              u.Email,
		Name:               u.Name,
		PasswordHash:       u.PasswordHash,
		Role:               u.Role,
		ForcePasswordReset: u.ForcePasswordReset,
	}
}

var _ auth.UserProvider = (*Service)(nil)
