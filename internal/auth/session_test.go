// AngelaMos | 2026
// session_test.go

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/billforge/internal/config"
	"github.com/carterperez-dev/billforge/internal/core"
	"github.com/carterperez-dev/billforge/internal/middleware"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		TTL:        24 * time.Hour,
		CookieName: "bf_session",
		Issuer:     "billforge",
		Audience:   "billforge-api",
	}
}

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	manager, err := NewSessionManager(testSessionConfig())
	require.NoError(t, err)
	return manager
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	issued := &middleware.Session{
		UserID:             "user-1",
		Email:              "admin@acme.test",
		Name:               "Acme Admin",
		Role:               middleware.RoleEntityAdmin,
		EntityID:           "entity-1",
		ForcePasswordReset: true,
	}

	credential, err := manager.Issue(issued)
	require.NoError(t, err)

	session, err := manager.Verify(credential)
	require.NoError(t, err)

	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "admin@acme.test", session.Email)
	assert.Equal(t, "Acme Admin", session.Name)
	assert.Equal(t, middleware.RoleEntityAdmin, session.Role)
	assert.Equal(t, "entity-1", session.EntityID)
	assert.True(t, session.ForcePasswordReset)
	assert.NotEmpty(t, session.TokenID)
	assert.WithinDuration(
		t, time.Now().Add(24*time.Hour), session.ExpiresAt, time.Minute)
}

func TestVerifyExpiredCredential(t *testing.T) {
	manager := newTestManager(t)

	credential, err := manager.Issue(&middleware.Session{
		UserID:   "user-1",
		Role:     middleware.RoleEntityUser,
		EntityID: "entity-1",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAt(credential, time.Now().Add(25*time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenExpired))
}

func TestVerifyTamperedCredential(t *testing.T) {
	manager := newTestManager(t)

	credential, err := manager.Issue(&middleware.Session{
		UserID:   "user-1",
		Role:     middleware.RoleEntityUser,
		EntityID: "entity-1",
	})
	require.NoError(t, err)

	parts := strings.Split(credential, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = manager.Verify(tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifyWrongKey(t *testing.T) {
	manager := newTestManager(t)

	otherCfg := testSessionConfig()
	otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
	other, err := NewSessionManager(otherCfg)
	require.NoError(t, err)

	credential, err := other.Issue(&middleware.Session{
		UserID:   "user-1",
		Role:     middleware.RoleEntityUser,
		EntityID: "entity-1",
	})
	require.NoError(t, err)

	_, err = manager.Verify(credential)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifyRequiresEntityBinding(t *testing.T) {
	manager := newTestManager(t)

	// A tenant role without an entity claim must not verify.
	credential, err := manager.Issue(&middleware.Session{
		UserID: "user-1",
		Role:   middleware.RoleEntityUser,
	})
	require.NoError(t, err)

	_, err = manager.Verify(credential)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestVerifySuperAdminWithoutEntity(t *testing.T) {
	manager := newTestManager(t)

	credential, err := manager.Issue(&middleware.Session{
		UserID: "root-1",
		Role:   middleware.RoleSuperAdmin,
	})
	require.NoError(t, err)

	session, err := manager.Verify(credential)
	require.NoError(t, err)
	assert.Empty(t, session.EntityID)
	assert.True(t, session.IsSuperAdmin())
}

func TestIssueRegeneratesTokenID(t *testing.T) {
	manager := newTestManager(t)

	s := &middleware.Session{
		UserID:   "user-1",
		Role:     middleware.RoleEntityUser,
		EntityID: "entity-1",
	}

	first, err := manager.Issue(s)
	require.NoError(t, err)
	second, err := manager.Issue(s)
	require.NoError(t, err)

	firstSession, err := manager.Verify(first)
	require.NoError(t, err)
	secondSession, err := manager.Verify(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstSession.TokenID, secondSession.TokenID)
}
