// Package auth carries the authenticated-user signal. The authentication
// flow itself lives outside this service; requests arrive with an opaque
// owner id which the HTTP middleware stashes in the context.
package auth

import "context"

type ownerKey struct{}

// WithOwner returns a context carrying the owner id.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFrom extracts the owner id. ok is false when no owner is present.
func OwnerFrom(ctx context.Context) (owner string, ok bool) {
	owner, ok = ctx.Value(ownerKey{}).(string)
	return owner, ok && owner != ""
}
