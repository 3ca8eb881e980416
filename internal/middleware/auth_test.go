// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWith(session *Session, tenant *TenantContext) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := r.Context()
	if session != nil {
		ctx = context.WithValue(ctx, SessionKey, session)
	}
	if tenant != nil {
		ctx = context.WithValue(ctx, TenantKey, tenant)
	}
	return r.WithContext(ctx)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestRequireTenantMatrix(t *testing.T) {
	activeTenant := &TenantContext{
		EntityID:  "entity-1",
		Subdomain: "acme",
		Active:    true,
	}
	inactiveTenant := &TenantContext{
		EntityID:  "entity-1",
		Subdomain: "acme",
		Active:    false,
	}

	tests := []struct {
		name       string
		session    *Session
		tenant     *TenantContext
		wantStatus int
		wantCode   string
	}{
		{
			name:       "anonymous denied",
			session:    nil,
			tenant:     activeTenant,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name: "no tenant context reads as missing",
			session: &Session{
				UserID: "u1", Role: RoleEntityUser, EntityID: "entity-1",
			},
			tenant:     nil,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name: "matching member allowed",
			session: &Session{
				UserID: "u1", Role: RoleEntityUser, EntityID: "entity-1",
			},
			tenant:     activeTenant,
			wantStatus: http.StatusOK,
		},
		{
			name: "cross-tenant session reads as missing, not forbidden",
			session: &Session{
				UserID: "u2", Role: RoleEntityAdmin, EntityID: "entity-2",
			},
			tenant:     activeTenant,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name: "super admin crosses tenants",
			session: &Session{
				UserID: "root", Role: RoleSuperAdmin,
			},
			tenant:     activeTenant,
			wantStatus: http.StatusOK,
		},
		{
			name: "inactive tenant is a distinct outcome",
			session: &Session{
				UserID: "u1", Role: RoleEntityUser, EntityID: "entity-1",
			},
			tenant:     inactiveTenant,
			wantStatus: http.StatusForbidden,
			wantCode:   "ACCOUNT_INACTIVE",
		},
		{
			name: "super admin bypasses the lifecycle gate",
			session: &Session{
				UserID: "root", Role: RoleSuperAdmin,
			},
			tenant:     inactiveTenant,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireTenant(okHandler()).ServeHTTP(
				rec, requestWith(tt.session, tt.tenant))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec.Body.Bytes()))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		session    *Session
		middleware func(http.Handler) http.Handler
		wantStatus int
	}{
		{
			name:       "super admin gate rejects tenant admin",
			session:    &Session{UserID: "u1", Role: RoleEntityAdmin, EntityID: "e1"},
			middleware: func(h http.Handler) http.Handler { return RequireSuperAdmin(h) },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "super admin gate admits super admin",
			session:    &Session{UserID: "root", Role: RoleSuperAdmin},
			middleware: func(h http.Handler) http.Handler { return RequireSuperAdmin(h) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "entity admin gate rejects plain member",
			session:    &Session{UserID: "u1", Role: RoleEntityUser, EntityID: "e1"},
			middleware: func(h http.Handler) http.Handler { return RequireEntityAdmin(h) },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "entity admin gate admits entity admin",
			session:    &Session{UserID: "u1", Role: RoleEntityAdmin, EntityID: "e1"},
			middleware: func(h http.Handler) http.Handler { return RequireEntityAdmin(h) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "entity admin gate admits super admin",
			session:    &Session{UserID: "root", Role: RoleSuperAdmin},
			middleware: func(h http.Handler) http.Handler { return RequireEntityAdmin(h) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "anonymous rejected as unauthenticated",
			session:    nil,
			middleware: func(h http.Handler) http.Handler { return RequireEntityAdmin(h) },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.middleware(okHandler()).ServeHTTP(
				rec, requestWith(tt.session, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestBlockForcedReset(t *testing.T) {
	rec := httptest.NewRecorder()
	BlockForcedReset(okHandler()).ServeHTTP(rec, requestWith(&Session{
		UserID:             "u1",
		Role:               RoleEntityUser,
		EntityID:           "e1",
		ForcePasswordReset: true,
	}, nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PASSWORD_RESET_REQUIRED", errorCode(t, rec.Body.Bytes()))

	rec = httptest.NewRecorder()
	BlockForcedReset(okHandler()).ServeHTTP(rec, requestWith(&Session{
		UserID:   "u1",
		Role:     RoleEntityUser,
		EntityID: "e1",
	}, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractCredential(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "bf_session", Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	// Cookie wins when both are present.
	assert.Equal(t, "cookie-token", ExtractCredential(r, "bf_session"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", ExtractCredential(r, "bf_session"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, ExtractCredential(r, "bf_session"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractCredential(r, "bf_session"))
}
