// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/billforge/internal/core"
	"github.com/carterperez-dev/billforge/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserInfo struct {
	ID                 string
	EntityID           string
	Email              string
	Name               string
	PasswordHash       string
	Role               string
	ForcePasswordReset bool
}

type UserProvider interface {
	// GetByEmail looks a user up within one tenant; entityID "" is the
	// platform scope (SUPER_ADMIN accounts).
	GetByEmail(ctx context.Context, entityID, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	// UpdatePasswordClearReset swaps the hash and clears the forced
	// reset flag in one statement.
	UpdatePasswordClearReset(
		ctx context.Context,
		userID, passwordHash string,
	) error
}

type Service struct {
	sessions *SessionManager
	users    UserProvider
	redis    *redis.Client
}

func NewService(
	sessions *SessionManager,
	users UserProvider,
	redisClient *redis.Client,
) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
		redis:    redisClient,
	}
}

// Login authenticates within the tenant scope resolved for the
// request. entityID "" means the super-admin console on the apex host.
func (s *Service) Login(
	ctx context.Context,
	entityID string,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, entityID, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	return s.issueFor(user)
}

// VerifySession implements middleware.SessionVerifier: signature and
// expiry first, then the logout blacklist.
func (s *Service) VerifySession(
	ctx context.Context,
	credential string,
) (*middleware.Session, error) {
	session, err := s.sessions.Verify(credential)
	if err != nil {
		return nil, err
	}

	if session.TokenID != "" {
		revoked, err := s.isRevoked(ctx, session.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
		}
	}

	return session, nil
}

func (s *Service) Logout(
	ctx context.Context,
	session *middleware.Session,
) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 || session.TokenID == "" {
		return nil
	}

	key := "blacklist:" + session.TokenID
	if err := s.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist session: %w", err)
	}

	return nil
}

// ChangePassword verifies the current password, commits the new hash
// together with clearing the forced-reset flag, and reissues the
// session wholesale. The old credential is blacklisted so the flag
// cannot be carried forward.
func (s *Service) ChangePassword(
	ctx context.Context,
	session *middleware.Session,
	req ChangePasswordRequest,
) (*AuthResponse, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordClearReset(ctx, user.ID, newHash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	if err := s.Logout(ctx, session); err != nil {
		return nil, fmt.Errorf("revoke old session: %w", err)
	}

	user.ForcePasswordReset = false
	return s.issueFor(user)
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*SessionUserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toSessionUserResponse(user), nil
}

func (s *Service) issueFor(user *UserInfo) (*AuthResponse, error) {
	session := &middleware.Session{
		UserID:             user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               user.Role,
		EntityID:           user.EntityID,
		ForcePasswordReset: user.ForcePasswordReset,
	}

	token, err := s.sessions.Issue(session)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &AuthResponse{
		User:      *toSessionUserResponse(user),
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessions.TTL()),
	}, nil
}

func (s *Service) isRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func toSessionUserResponse(u *UserInfo) *SessionUserResponse {
	return &SessionUserResponse{
		ID:                 u.ID,
		EntityID:           u.EntityID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		ForcePasswordReset: u.ForcePasswordReset,
	}
}

var _ middleware.SessionVerifier = (*Service)(nil)
