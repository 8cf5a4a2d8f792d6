package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/davidhuanca/mayorista-backend/api/responses"
	pkgerrors "github.com/davidhuanca/mayorista-backend/pkg/errors"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// GuestRateLimitPolicy throttles unauthenticated order placement per client
// IP.
type GuestRateLimitPolicy struct {
	Window  time.Duration
	IPLimit int
}

func (p GuestRateLimitPolicy) enabled() bool {
	return p.Window > 0 && p.IPLimit > 0
}

// GuestRateLimit applies the policy against the redis fixed window counter.
// Limiter outages fail open so checkout never depends on redis being up.
func GuestRateLimit(policy GuestRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !policy.enabled() || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			scope := fmt.Sprintf("guest_orders:ip:%s", ip)
			allowed, count, err := store.FixedWindowAllow(r.Context(), scope, int64(policy.IPLimit), policy.Window)
			if err != nil {
				if logg != nil {
					logg.Error(r.Context(), "guest rate limit check failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"ip": ip, "count": count})
					logg.Warn(ctx, "guest order rate limited")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many orders, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
