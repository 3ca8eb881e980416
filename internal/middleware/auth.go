// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/billforge/internal/core"
)

type SessionVerifier interface {
	VerifySession(ctx context.Context, credential string) (*Session, error)
}

// Authenticator resolves the session credential from the cookie or the
// Authorization header. Absent or invalid credentials leave the request
// anonymous; gates further down decide whether that is acceptable.
func Authenticator(
	verifier SessionVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := ExtractCredential(r, cookieName)
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := verifier.VerifySession(r.Context(), credential)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant enforces the tenant boundary on tenant-branded routes:
// a session must exist, it must agree with the subdomain-resolved
// entity (SUPER_ADMIN excepted), and the entity must be ACTIVE.
// Disagreement surfaces as not-found so foreign tenants are not
// disclosed.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r.Context())
		if session == nil {
			core.JSONError(w, core.UnauthorizedError("authentication required"))
			return
		}

		tenant := GetTenant(r.Context())
		if tenant == nil {
			core.NotFound(w, "account")
			return
		}

		if !session.IsSuperAdmin() && session.EntityID != tenant.EntityID {
			core.NotFound(w, "account")
			return
		}

		if !tenant.Active && !session.IsSuperAdmin() {
			core.JSONError(w, core.InactiveAccountError())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if _, ok := roleSet[session.Role]; !ok {
				core.Forbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireSuperAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleSuperAdmin)(next)
}

// RequireEntityAdmin gates tenant-administration operations. The
// tenant match itself is RequireTenant's job; this only checks role.
func RequireEntityAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleEntityAdmin, RoleSuperAdmin)(next)
}

// BlockForcedReset confines a flagged session to the password-reset
// operation. Routes that must stay reachable (the reset itself,
// logout) simply do not mount this middleware.
func BlockForcedReset(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r.Context())
		if session != nil && session.ForcePasswordReset {
			core.JSONError(w, core.PasswordResetRequiredError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ExtractCredential(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}
