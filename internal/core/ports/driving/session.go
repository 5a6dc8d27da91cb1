// Package driving defines the interfaces through which the outside world
// drives the core. The CLI adapter calls these; core services implement them.
package driving

import "context"

// SessionService exposes the token lifecycle operations.
type SessionService interface {
	// ObtainToken runs the full authorization-code handshake: it prints the
	// authorization URL for the operator, waits for the browser redirect,
	// validates the CSRF state, exchanges the code, persists the resulting
	// token set, and returns the access token.
	ObtainToken(ctx context.Context) (string, error)

	// RefreshToken renews the stored token set using its refresh token,
	// persists the replacement pair, and returns the new access token.
	// A failed refresh is returned as-is; it never falls back to a fresh
	// authorization.
	RefreshToken(ctx context.Context) (string, error)

	// Token returns a valid access token, refreshing the stored set when
	// one exists and running a fresh authorization only when no token set
	// has ever been persisted (domain.ErrTokenNotFound).
	Token(ctx context.Context) (string, error)
}
