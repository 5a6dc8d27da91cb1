package domain

import (
	"net/url"
	"strings"
)

// TokenSet holds the access/refresh token pair returned by the Withings
// token endpoint. Both tokens are always replaced together on a successful
// exchange or refresh; a TokenSet is never partially updated.
type TokenSet struct {
	// AccessToken is the bearer credential for API calls.
	// Withings access tokens expire after one hour.
	AccessToken string `json:"access_token"`
	// RefreshToken obtains a new token pair without user interaction.
	// Valid for roughly a year; its staleness is discovered when the
	// provider rejects it rather than tracked locally.
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is the access token lifetime in seconds as reported by
	// the provider. Informational only, not persisted.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// IsComplete returns true if both tokens are present.
func (t *TokenSet) IsComplete() bool {
	return t != nil && t.AccessToken != "" && t.RefreshToken != ""
}

// AuthorizationRequest describes one authorization-code handshake attempt.
// It is immutable and discarded once the handshake completes or fails.
type AuthorizationRequest struct {
	// ClientID is the OAuth client ID issued by Withings.
	ClientID string
	// Scope is the set of requested permission scopes.
	Scope []string
	// RedirectURI is where the provider sends the user after approval.
	RedirectURI string
	// State is the per-attempt CSRF token, 12 characters from a fixed
	// alphabet.
	State string
}

// URL builds the provider authorization URL for this request.
// Scopes are joined comma-separated, as Withings expects.
func (r AuthorizationRequest) URL(authBase string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {r.ClientID},
		"redirect_uri":  {r.RedirectURI},
		"scope":         {strings.Join(r.Scope, ",")},
		"state":         {r.State},
	}
	return authBase + "?" + params.Encode()
}

// RedirectResult carries the query parameters captured from the provider's
// redirect. Produced exactly once per handshake by the redirect listener
// and consumed immediately by state validation.
type RedirectResult struct {
	// Code is the short-lived authorization code.
	Code string
	// State echoes the CSRF state sent in the authorization request.
	State string
}
