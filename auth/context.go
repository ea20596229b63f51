package auth

import (
	"context"

	"github.com/redsource/redsource-server/users"
)

type principalKey struct{}

// ContextWithPrincipal returns a copy of ctx carrying the authenticated user.
func ContextWithPrincipal(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// PrincipalFromContext returns the user attached by ContextWithPrincipal.
func PrincipalFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(principalKey{}).(*users.User)
	return user, ok && user != nil
}
