package auth

import "context"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID   int64
	Username string
}

type identityCtxKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// FromContext retrieves the identity from a request context.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}
