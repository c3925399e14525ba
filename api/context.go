package api

import (
	"context"
)

type keyType string

const (
	claimsKey keyType = "claims"
)

// ctxWithClaims adds verified token claims to the context
func ctxWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims returns the claims of the authenticated caller, or nil for an
// anonymous request.
func ctxGetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}
