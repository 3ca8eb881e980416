// AngelaMos | 2026
// tenant.go

package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/carterperez-dev/billforge/internal/core"
)

type TenantResolver interface {
	ResolveSubdomain(ctx context.Context, subdomain string) (*TenantContext, error)
}

// ResolveTenant maps the request host onto a tenant. Requests on the
// bare base domain (the super-admin console) carry no tenant context.
// An unknown subdomain is a hard not-found: nothing downstream should
// run without a resolved tenant on a branded host.
func ResolveTenant(
	resolver TenantResolver,
	baseDomain string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subdomain := SubdomainFromHost(requestHost(r), baseDomain)
			if subdomain == "" {
				next.ServeHTTP(w, r)
				return
			}

			tenant, err := resolver.ResolveSubdomain(r.Context(), subdomain)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.NotFound(w, "account")
					return
				}
				core.InternalServerError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubdomainFromHost extracts the tenant label from a host like
// "acme.billforge.io" under base domain "billforge.io". Returns ""
// for the bare base domain or hosts outside it.
func SubdomainFromHost(host, baseDomain string) string {
	host = strings.ToLower(host)
	baseDomain = strings.ToLower(baseDomain)

	if host == baseDomain || host == "www."+baseDomain {
		return ""
	}

	suffix := "." + baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}

	label := strings.TrimSuffix(host, suffix)
	if label == "" || strings.Contains(label, ".") {
		return ""
	}

	return label
}

func requestHost(r *http.Request) string {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}

	return host
}
