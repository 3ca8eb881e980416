// AngelaMos | 2026
// session.go

package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/billforge/internal/config"
	"github.com/carterperez-dev/billforge/internal/core"
	"github.com/carterperez-dev/billforge/internal/middleware"
)

// SessionManager issues and verifies the signed session credential.
// Sessions are stateless: the server stores nothing per session, and a
// credential is valid until it expires or its jti lands on the logout
// blacklist.
type SessionManager struct {
	key    jwk.Key
	config config.SessionConfig
}

func NewSessionManager(cfg config.SessionConfig) (*SessionManager, error) {
	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import session key: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &SessionManager{key: key, config: cfg}, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.config.TTL
}

// Issue signs a fresh credential for the session. The token id and
// expiry are always regenerated; callers reissue wholesale on any
// privilege-relevant change.
func (m *SessionManager) Issue(s *middleware.Session) (string, error) {
	now := time.Now()

	builder := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(s.UserID).
		IssuedAt(now).
		Expiration(now.Add(m.config.TTL)).
		NotBefore(now).
		Claim("email", s.Email).
		Claim("name", s.Name).
		Claim("role", s.Role).
		Claim("force_password_reset", s.ForcePasswordReset)

	if s.EntityID != "" {
		builder = builder.Claim("entity_id", s.EntityID)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return string(signed), nil
}

// Verify checks a credential against the current wall clock.
func (m *SessionManager) Verify(credential string) (*middleware.Session, error) {
	return m.VerifyAt(credential, time.Now())
}

// VerifyAt is the side-effect-free verification primitive: credential
// in, time in, typed session or error out.
func (m *SessionManager) VerifyAt(
	credential string,
	now time.Time,
) (*middleware.Session, error) {
	token, err := jwt.Parse(
		[]byte(credential),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify session: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify session: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil || role == "" {
		return nil, fmt.Errorf(
			"verify session: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	//nolint:errcheck // email is informational
	_ = token.Get("email", &email)

	var name string
	//nolint:errcheck // name is informational
	_ = token.Get("name", &name)

	var entityID string
	//nolint:errcheck // absent for SUPER_ADMIN
	_ = token.Get("entity_id", &entityID)

	if role != middleware.RoleSuperAdmin && entityID == "" {
		return nil, fmt.Errorf(
			"verify session: missing entity binding: %w",
			core.ErrTokenInvalid,
		)
	}

	var forceReset bool
	//nolint:errcheck // defaults to false when absent
	_ = token.Get("force_password_reset", &forceReset)

	tokenID, _ := token.JwtID()
	expiresAt, _ := token.Expiration()

	return &middleware.Session{
		UserID:             subject,
		Email:              email,
		Name:               name,
		Role:               role,
		EntityID:           entityID,
		ForcePasswordReset: forceReset,
		TokenID:            tokenID,
		ExpiresAt:          expiresAt,
	}, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
