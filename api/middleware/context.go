package middleware

import (
	"context"

	"github.com/davidhuanca/mayorista-backend/pkg/auth"
)

type contextKey string

const ctxClaims contextKey = "claims"

// ClaimsFromContext returns the access-token claims seeded by Auth, or nil
// for anonymous requests.
func ClaimsFromContext(ctx context.Context) *auth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*auth.AccessTokenClaims); ok {
		return v
	}
	return nil
}

// WithClaims injects token claims into the context for downstream handlers.
func WithClaims(ctx context.Context, claims *auth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
