// Package services implements the core token lifecycle logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wellfetch/withings-cli/internal/core/domain"
	"github.com/wellfetch/withings-cli/internal/core/ports/driven"
	"github.com/wellfetch/withings-cli/internal/core/ports/driving"
	"github.com/wellfetch/withings-cli/internal/logger"
)

// Ensure SessionService implements the interfaces.
var (
	_ driving.SessionService = (*SessionService)(nil)
	_ driven.TokenProvider   = (*SessionService)(nil)
)

// Default authorization parameters for the Withings API.
const (
	// DefaultAuthURL is the Withings user authorization endpoint.
	DefaultAuthURL = "https://account.withings.com/oauth2_user/authorize2"
	// DefaultRedirectURI matches the redirect listener's default port.
	DefaultRedirectURI = "http://localhost:8888"
)

// DefaultScopes are the permission scopes requested during authorization.
var DefaultScopes = []string{"user.info", "user.metrics", "user.activity"}

// SessionConfig holds the per-installation authorization parameters.
// Zero fields fall back to the documented Withings defaults so tests can
// substitute a mock endpoint and an ephemeral port.
type SessionConfig struct {
	// ClientID is the OAuth client ID issued by Withings.
	ClientID string
	// AuthURL is the provider authorization endpoint.
	AuthURL string
	// Scopes are the permission scopes to request.
	Scopes []string
	// Out receives operator-facing messages (the authorization URL).
	// Defaults to os.Stdout.
	Out io.Writer
}

// SessionService sequences the handshake components into the public token
// lifecycle operations. It runs one handshake or refresh at a time and
// performs no retries; retry policy belongs to the caller.
type SessionService struct {
	exchanger driven.TokenExchanger
	store     driven.TokenStore
	listener  driven.RedirectListener

	clientID string
	authURL  string
	scopes   []string
	out      io.Writer
}

// NewSessionService creates a session service from its collaborators.
func NewSessionService(
	cfg SessionConfig,
	exchanger driven.TokenExchanger,
	store driven.TokenStore,
	listener driven.RedirectListener,
) *SessionService {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	return &SessionService{
		exchanger: exchanger,
		store:     store,
		listener:  listener,
		clientID:  cfg.ClientID,
		authURL:   authURL,
		scopes:    scopes,
		out:       out,
	}
}

// ObtainToken runs the full authorization-code handshake and returns the
// new access token. The operator must approve access in a browser; the
// redirect wait has no internal timeout, so cancel ctx to bound it.
func (s *SessionService) ObtainToken(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	req := domain.AuthorizationRequest{
		ClientID:    s.clientID,
		Scope:       s.scopes,
		RedirectURI: s.listener.RedirectURI(),
		State:       state,
	}
	fmt.Fprintf(s.out, "Browse to: %s\n\n", req.URL(s.authURL))

	result, err := s.listener.Capture(ctx)
	if err != nil {
		return "", err
	}
	logger.Debug("redirect captured, authorization code received")

	if err := validateState(result.State, state); err != nil {
		logger.Warn("state parameter mismatch, discarding authorization code")
		return "", err
	}

	tokens, err := s.exchanger.ExchangeCode(ctx, result.Code, req.RedirectURI)
	if err != nil {
		return "", err
	}
	logger.Info("access token obtained")

	return s.persist(tokens)
}

// RefreshToken renews the stored token set and returns the new access
// token. The old pair is replaced wholesale on success; on any failure the
// stored set is left untouched.
func (s *SessionService) RefreshToken(ctx context.Context) (string, error) {
	stored, err := s.store.Load()
	if err != nil {
		return "", err
	}

	tokens, err := s.exchanger.ExchangeRefresh(ctx, stored.RefreshToken)
	if err != nil {
		return "", err
	}
	logger.Info("access token refreshed")

	return s.persist(tokens)
}

// Token returns a valid access token. A loadable token set is renewed via
// refresh; only the complete absence of stored state triggers a fresh
// authorization. Corrupt stored state is surfaced rather than silently
// discarded.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	_, err := s.store.Load()
	switch {
	case err == nil:
		return s.RefreshToken(ctx)
	case errors.Is(err, domain.ErrTokenNotFound):
		logger.Debug("no stored token set, starting authorization")
		return s.ObtainToken(ctx)
	default:
		return "", err
	}
}

// persist saves the token set. When persistence fails the access token is
// still returned alongside the error: the tokens exist in memory and remain
// usable for the current run, but the caller must know they are not durable.
func (s *SessionService) persist(tokens *domain.TokenSet) (string, error) {
	if err := s.store.Save(tokens); err != nil {
		logger.Warn("token set not persisted: %v", err)
		return tokens.AccessToken, err
	}
	return tokens.AccessToken, nil
}
