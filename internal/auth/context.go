package auth

import "context"

type ctxKey int

const principalKey ctxKey = iota

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID   int64
	Username string
	// TokenID is the jti of the access token that authenticated the request.
	TokenID string
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the caller placed in ctx by the auth
// middleware, or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// UserID returns the authenticated user's id, or 0 when the request is
// anonymous.
func UserID(ctx context.Context) int64 {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.UserID
	}
	return 0
}
