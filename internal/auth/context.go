// internal/auth/context.go
//
// Identity carrier shared by the session layer and the access gate.
//
// Usage
// -----
//     // Attach the signed-in identity to the request context.
//     ctx = auth.WithIdentity(ctx, auth.Identity{UID: uid, Email: email})
//
//     // Downstream code retrieves it.
//     id, ok := auth.IdentityFrom(ctx)
//
// Notes
// -----
// • The Identity is transient; authorization is never stored on it.  The
//   access gate derives `authorized` from (identity, allow-list, store)
//   on every request.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// Identity is the currently authenticated principal.  UID is the opaque
// key the authorization documents are filed under; Email is what the
// allow-list matches against.
type Identity struct {
	UID   string
	Email string
}

// identityKey is unexported to avoid context-key collisions.
type identityKey struct{}

// WithIdentity returns a new context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the identity from ctx.  ok is false when no user
// is signed in.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
