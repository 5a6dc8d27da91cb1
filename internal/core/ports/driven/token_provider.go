package driven

import "context"

// TokenProvider supplies a valid access token for authenticated API calls.
// Implementations decide how the token is produced (stored, refreshed, or
// obtained through a fresh authorization).
type TokenProvider interface {
	// Token returns a valid access token.
	Token(ctx context.Context) (string, error)
}
