package domain

import "errors"

// Domain errors represent handshake and token lifecycle failures.
// These are distinct from infrastructure errors and let callers
// tell the failing step apart with errors.Is.
var (
	// ErrListenerBind indicates the redirect listener could not bind its port.
	// Fatal: the port is fixed, so the operator must free it. No retry.
	ErrListenerBind = errors.New("redirect listener bind failed")

	// ErrMissingRedirectParams indicates the captured redirect lacked the
	// code or state query parameter. The handshake cannot continue.
	ErrMissingRedirectParams = errors.New("redirect missing code or state parameter")

	// ErrStateMismatch indicates the redirect's state did not match the one
	// generated for this handshake. Possible CSRF attack or stale link;
	// the handshake must restart with a new state.
	ErrStateMismatch = errors.New("state parameter mismatch")

	// ErrExchangeStatus indicates the token endpoint rejected the request,
	// either with a non-2xx HTTP status or a nonzero Withings status code.
	ErrExchangeStatus = errors.New("token endpoint returned an error")

	// ErrExchangeDecode indicates the token endpoint response did not match
	// the expected shape.
	ErrExchangeDecode = errors.New("token response decode failed")

	// ErrTokenNotFound indicates no token file exists yet. Callers may treat
	// this as the cue to run a fresh authorization.
	ErrTokenNotFound = errors.New("no stored token set")

	// ErrTokenCorrupt indicates the token file exists but cannot be read as
	// a valid token set.
	ErrTokenCorrupt = errors.New("stored token set is corrupt")

	// ErrTokenPersist indicates tokens were obtained but could not be saved.
	// The in-memory access token is still usable for the current run.
	ErrTokenPersist = errors.New("token set could not be persisted")
)
