// AngelaMos | 2026
// tenant_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/billforge/internal/core"
)

func TestSubdomainFromHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"acme.billforge.io", "acme"},
		{"ACME.billforge.io", "acme"},
		{"billforge.io", ""},
		{"www.billforge.io", ""},
		{"a.b.billforge.io", ""},
		{"acme.otherdomain.io", ""},
		{".billforge.io", ""},
		{"acme.billforge.io.evil.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, SubdomainFromHost(tt.host, "billforge.io"))
		})
	}
}

type stubResolver struct {
	tenants map[string]*TenantContext
}

func (s *stubResolver) ResolveSubdomain(
	_ context.Context,
	subdomain string,
) (*TenantContext, error) {
	tenant, ok := s.tenants[subdomain]
	if !ok {
		return nil, fmt.Errorf("resolve: %w", core.ErrNotFound)
	}
	return tenant, nil
}

func TestResolveTenant(t *testing.T) {
	resolver := &stubResolver{tenants: map[string]*TenantContext{
		"acme": {EntityID: "entity-1", Subdomain: "acme", Active: true},
	}}

	var seen *TenantContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTenant(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := ResolveTenant(resolver, "billforge.io")(next)

	t.Run("branded host resolves tenant", func(t *testing.T) {
		seen = nil
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = "acme.billforge.io"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "entity-1", seen.EntityID)
	})

	t.Run("bare base domain carries no tenant", func(t *testing.T) {
		seen = nil
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = "billforge.io"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("unknown subdomain is not found", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = "ghost.billforge.io"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forwarded host wins and port is stripped", func(t *testing.T) {
		seen = nil
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = "internal:8080"
		r.Header.Set("X-Forwarded-Host", "acme.billforge.io:443")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "acme", seen.Subdomain)
	})
}
