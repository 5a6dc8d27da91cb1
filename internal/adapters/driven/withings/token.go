// Package withings implements the driven adapters that talk to the
// Withings API: the token endpoint and the measure endpoint.
//
// Withings does not follow the OAuth2 spec exactly. Token responses are
// wrapped in a {status, body} envelope, every token call carries an
// action=requesttoken field, and the userid field changes type between
// calls.
package withings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wellfetch/withings-cli/internal/core/domain"
	"github.com/wellfetch/withings-cli/internal/core/ports/driven"
	"github.com/wellfetch/withings-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.TokenExchanger = (*Client)(nil)

// DefaultTokenURL is the Withings token endpoint.
//
//nolint:gosec // G101: Not credentials, OAuth endpoint URL
const DefaultTokenURL = "https://wbsapi.withings.net/v2/oauth2"

// actionRequestToken is required by Withings on every token call.
const actionRequestToken = "requesttoken"

// grantKind enumerates the token endpoint's two operations.
type grantKind int

const (
	grantAuthorizationCode grantKind = iota
	grantRefreshToken
)

func (g grantKind) String() string {
	if g == grantRefreshToken {
		return "refresh_token"
	}
	return "authorization_code"
}

// tokenRequest is the typed parameter set for one token call. The grant
// kind decides which optional fields are encoded, so code/redirect_uri and
// refresh_token can never leak into the wrong grant.
type tokenRequest struct {
	grant        grantKind
	code         string
	redirectURI  string
	refreshToken string
}

// values assembles the form body for this request.
func (r tokenRequest) values(clientID, clientSecret string) url.Values {
	data := url.Values{}
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("grant_type", r.grant.String())
	data.Set("action", actionRequestToken)

	switch r.grant {
	case grantAuthorizationCode:
		data.Set("code", r.code)
		data.Set("redirect_uri", r.redirectURI)
	case grantRefreshToken:
		data.Set("refresh_token", r.refreshToken)
	}

	return data
}

// tokenEnvelope is the wire shape of a token response.
type tokenEnvelope struct {
	Status int       `json:"status"`
	Body   tokenBody `json:"body"`
}

// tokenBody is the payload of a token response. The userid field is not
// decoded: Withings returns it as a string on some calls and a number on
// others, and nothing here consumes it.
type tokenBody struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// Client performs token exchanges against the Withings token endpoint.
type Client struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewClient creates a token exchange client. An empty tokenURL falls back
// to the production endpoint; tests pass an httptest server URL.
func NewClient(tokenURL, clientID, clientSecret string) *Client {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Client{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ExchangeCode swaps an authorization code for a token set.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*domain.TokenSet, error) {
	return c.requestToken(ctx, tokenRequest{
		grant:       grantAuthorizationCode,
		code:        code,
		redirectURI: redirectURI,
	})
}

// ExchangeRefresh swaps a refresh token for a new token set.
func (c *Client) ExchangeRefresh(ctx context.Context, refreshToken string) (*domain.TokenSet, error) {
	return c.requestToken(ctx, tokenRequest{
		grant:        grantRefreshToken,
		refreshToken: refreshToken,
	})
}

// requestToken posts one token request and decodes the envelope.
// Failures keep their causes apart: transport errors, a non-2xx HTTP
// status, a nonzero Withings status, and an undecodable body each surface
// distinctly.
func (c *Client) requestToken(ctx context.Context, tr tokenRequest) (*domain.TokenSet, error) {
	data := tr.values(c.clientID, c.clientSecret)
	logger.Debug("token request: grant_type=%s", tr.grant)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP status %d", domain.ErrExchangeStatus, resp.StatusCode)
	}

	var envelope tokenEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExchangeDecode, err)
	}

	// Withings reports most errors as status != 0 inside a 200 response.
	if envelope.Status != 0 {
		return nil, fmt.Errorf("%w: withings status %d", domain.ErrExchangeStatus, envelope.Status)
	}

	if envelope.Body.AccessToken == "" || envelope.Body.RefreshToken == "" {
		return nil, fmt.Errorf("%w: response missing token fields", domain.ErrExchangeDecode)
	}

	return &domain.TokenSet{
		AccessToken:  envelope.Body.AccessToken,
		RefreshToken: envelope.Body.RefreshToken,
		ExpiresIn:    envelope.Body.ExpiresIn,
	}, nil
}
