package policy

import (
	"context"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
)

// Identity is the authenticated caller of a request
type Identity struct {
	ID    int64
	Email string
	Role  models.Role
}

// IsAdmin reports whether the caller holds the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type identityKey struct{}

// WithIdentity stores the caller in ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored in ctx, if any
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.ID > 0
}

// Authenticated returns the caller or ErrUnauthorized
func Authenticated(ctx context.Context) (Identity, error) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return Identity{}, common.ErrUnauthorized
	}
	return id, nil
}
