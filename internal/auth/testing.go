package auth

import "context"

// SetClaimsForTesting injects claims into a context to simulate an
// authenticated request. Only for use in tests.
func SetClaimsForTesting(ctx context.Context, claims *CustomClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
