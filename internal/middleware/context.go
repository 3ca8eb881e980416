// AngelaMos | 2026
// context.go

package middleware

import (
	"context"
	"time"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	TenantKey  contextKey = "tenant"
)

const (
	RoleSuperAdmin  = "SUPER_ADMIN"
	RoleEntityAdmin = "ENTITY_ADMIN"
	RoleEntityUser  = "ENTITY_USER"
)

// Session is the verified identity carried by the signed credential.
// EntityID is empty only for SUPER_ADMIN.
type Session struct {
	UserID             string
	Email              string
	Name               string
	Role               string
	EntityID           string
	ForcePasswordReset bool
	TokenID            string
	ExpiresAt          time.Time
}

func (s *Session) IsSuperAdmin() bool {
	return s.Role == RoleSuperAdmin
}

// TenantContext is the entity resolved from the request's subdomain.
type TenantContext struct {
	EntityID  string
	Subdomain string
	Name      string
	Active    bool
}

func GetSession(ctx context.Context) *Session {
	if s, ok := ctx.Value(SessionKey).(*Session); ok {
		return s
	}
	return nil
}

func GetTenant(ctx context.Context) *TenantContext {
	if t, ok := ctx.Value(TenantKey).(*TenantContext); ok {
		return t
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.UserID
	}
	return ""
}

// GetEntityID returns the tenant scope for the request: the resolved
// tenant when present, otherwise the session's own entity binding.
func GetEntityID(ctx context.Context) string {
	if t := GetTenant(ctx); t != nil {
		return t.EntityID
	}
	if s := GetSession(ctx); s != nil {
		return s.EntityID
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetSession(ctx) != nil
}
