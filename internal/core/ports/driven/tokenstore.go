package driven

import "github.com/wellfetch/withings-cli/internal/core/domain"

// TokenStore persists the current access/refresh token pair.
// A single process instance is expected to hold token authority at a time;
// concurrent writers are out of scope and the last writer wins.
type TokenStore interface {
	// Load reads the stored token set.
	// Returns domain.ErrTokenNotFound if nothing has been persisted yet and
	// domain.ErrTokenCorrupt if the stored data cannot be interpreted.
	Load() (*domain.TokenSet, error)

	// Save replaces the stored token set wholesale. Save is all-or-nothing:
	// a failed write must never leave a partial file that a later Load
	// would accept as valid. Failures wrap domain.ErrTokenPersist.
	Save(tokens *domain.TokenSet) error
}
