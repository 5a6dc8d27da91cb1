package driven

import (
	"context"

	"github.com/wellfetch/withings-cli/internal/core/domain"
)

// RedirectListener captures the provider's OAuth redirect exactly once.
type RedirectListener interface {
	// Capture blocks until one redirect request arrives, then returns the
	// extracted code/state pair and releases the port. There is no internal
	// timeout; cancel ctx to bound the wait. The port is released on every
	// exit path, including cancellation.
	//
	// Returns domain.ErrListenerBind if the port cannot be bound and
	// domain.ErrMissingRedirectParams if the request lacks code or state.
	Capture(ctx context.Context) (*domain.RedirectResult, error)

	// RedirectURI returns the redirect URI the provider should be told
	// to send the user to.
	RedirectURI() string
}
