package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellfetch/withings-cli/internal/core/domain"
)

// Test doubles

type stubExchanger struct {
	exchangeCalls int
	refreshCalls  int

	gotCode         string
	gotRedirectURI  string
	gotRefreshToken string

	tokens *domain.TokenSet
	err    error
}

func (e *stubExchanger) ExchangeCode(_ context.Context, code, redirectURI string) (*domain.TokenSet, error) {
	e.exchangeCalls++
	e.gotCode = code
	e.gotRedirectURI = redirectURI
	if e.err != nil {
		return nil, e.err
	}
	return e.tokens, nil
}

func (e *stubExchanger) ExchangeRefresh(_ context.Context, refreshToken string) (*domain.TokenSet, error) {
	e.refreshCalls++
	e.gotRefreshToken = refreshToken
	if e.err != nil {
		return nil, e.err
	}
	return e.tokens, nil
}

type stubStore struct {
	stored  *domain.TokenSet
	loadErr error
	saveErr error
}

func (s *stubStore) Load() (*domain.TokenSet, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.stored == nil {
		return nil, domain.ErrTokenNotFound
	}
	return s.stored, nil
}

func (s *stubStore) Save(tokens *domain.TokenSet) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.stored = tokens
	return nil
}

// stubListener plays the browser's part. When echoState is set it reads the
// state back out of the authorization URL the service printed, the way a
// real redirect carries the state the provider was given.
type stubListener struct {
	out       *bytes.Buffer
	echoState bool
	result    domain.RedirectResult
	err       error
}

func (l *stubListener) Capture(_ context.Context) (*domain.RedirectResult, error) {
	if l.err != nil {
		return nil, l.err
	}
	result := l.result
	if l.echoState {
		state, err := stateFromOutput(l.out.String())
		if err != nil {
			return nil, err
		}
		result.State = state
	}
	return &result, nil
}

func (l *stubListener) RedirectURI() string {
	return "http://localhost:8888"
}

func stateFromOutput(out string) (string, error) {
	idx := strings.Index(out, "Browse to: ")
	if idx < 0 {
		return "", fmt.Errorf("no authorization URL printed: %q", out)
	}
	line := strings.TrimSpace(out[idx+len("Browse to: "):])
	u, err := url.Parse(line)
	if err != nil {
		return "", err
	}
	return u.Query().Get("state"), nil
}

func newTestSession(
	exchanger *stubExchanger, store *stubStore, listener *stubListener,
) (*SessionService, *bytes.Buffer) {
	out := &bytes.Buffer{}
	listener.out = out
	svc := NewSessionService(SessionConfig{
		ClientID: "c1",
		AuthURL:  "https://provider.example/authorize",
		Out:      out,
	}, exchanger, store, listener)
	return svc, out
}

// ObtainToken

func TestObtainToken_Success(t *testing.T) {
	exchanger := &stubExchanger{tokens: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	store := &stubStore{}
	listener := &stubListener{echoState: true, result: domain.RedirectResult{Code: "auth-code-1"}}

	svc, out := newTestSession(exchanger, store, listener)

	token, err := svc.ObtainToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AT1", token)

	// The exchange used the captured code and the listener's redirect URI.
	assert.Equal(t, 1, exchanger.exchangeCalls)
	assert.Equal(t, "auth-code-1", exchanger.gotCode)
	assert.Equal(t, "http://localhost:8888", exchanger.gotRedirectURI)

	// The new pair was persisted.
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "AT1", saved.AccessToken)
	assert.Equal(t, "RT1", saved.RefreshToken)

	// The operator was shown a well-formed authorization URL.
	state, err := stateFromOutput(out.String())
	require.NoError(t, err)
	assert.Len(t, state, stateLength)
	assert.Contains(t, out.String(), "client_id=c1")
	assert.Contains(t, out.String(), "response_type=code")
}

func TestObtainToken_StateMismatch(t *testing.T) {
	exchanger := &stubExchanger{tokens: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	store := &stubStore{}
	listener := &stubListener{result: domain.RedirectResult{Code: "auth-code-1", State: "wrong"}}

	svc, _ := newTestSession(exchanger, store, listener)

	_, err := svc.ObtainToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStateMismatch)

	// The token endpoint must never see a code with a forged state.
	assert.Equal(t, 0, exchanger.exchangeCalls)
	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestObtainToken_ListenerFailure(t *testing.T) {
	exchanger := &stubExchanger{}
	store := &stubStore{}
	listener := &stubListener{err: fmt.Errorf("capture redirect: %w", domain.ErrMissingRedirectParams)}

	svc, _ := newTestSession(exchanger, store, listener)

	_, err := svc.ObtainToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingRedirectParams)
	assert.Equal(t, 0, exchanger.exchangeCalls)
}

func TestObtainToken_ExchangeFailure(t *testing.T) {
	exchanger := &stubExchanger{err: fmt.Errorf("%w: status 400", domain.ErrExchangeStatus)}
	store := &stubStore{}
	listener := &stubListener{echoState: true, result: domain.RedirectResult{Code: "auth-code-1"}}

	svc, _ := newTestSession(exchanger, store, listener)

	_, err := svc.ObtainToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExchangeStatus)

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestObtainToken_PersistFailureStillReturnsToken(t *testing.T) {
	exchanger := &stubExchanger{tokens: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	store := &stubStore{saveErr: fmt.Errorf("%w: disk full", domain.ErrTokenPersist)}
	listener := &stubListener{echoState: true, result: domain.RedirectResult{Code: "auth-code-1"}}

	svc, _ := newTestSession(exchanger, store, listener)

	token, err := svc.ObtainToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenPersist)
	// The in-memory token is still usable for the current run.
	assert.Equal(t, "AT1", token)
}

// RefreshToken

func TestRefreshToken_Success(t *testing.T) {
	exchanger := &stubExchanger{tokens: &domain.TokenSet{AccessToken: "AT2", RefreshToken: "RT2"}}
	store := &stubStore{stored: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	listener := &stubListener{}

	svc, _ := newTestSession(exchanger, store, listener)

	token, err := svc.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AT2", token)
	assert.Equal(t, 1, exchanger.refreshCalls)
	assert.Equal(t, "RT1", exchanger.gotRefreshToken)

	// Old pair fully replaced, not merged.
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "AT2", saved.AccessToken)
	assert.Equal(t, "RT2", saved.RefreshToken)
}

func TestRefreshToken_ExchangeFailureLeavesStoreUntouched(t *testing.T) {
	exchanger := &stubExchanger{err: fmt.Errorf("%w: status 400", domain.ErrExchangeStatus)}
	store := &stubStore{stored: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	listener := &stubListener{}

	svc, _ := newTestSession(exchanger, store, listener)

	_, err := svc.RefreshToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExchangeStatus)

	saved, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, "AT1", saved.AccessToken)
	assert.Equal(t, "RT1", saved.RefreshToken)
}

func TestRefreshToken_NoStoredTokens(t *testing.T) {
	exchanger := &stubExchanger{}
	store := &stubStore{}
	listener := &stubListener{}

	svc, _ := newTestSession(exchanger, store, listener)

	_, err := svc.RefreshToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	assert.Equal(t, 0, exchanger.refreshCalls)
}

// Token

func TestToken_RefreshesWhenStored(t *testing.T) {
	exchanger := &stubExchanger{tokens: &domain.TokenSet{AccessToken: "AT2", RefreshToken: "RT2"}}
	store := &stubStore{stored: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	listener := &stubListener{}

	svc, _ := newTestSession(exchanger, store, listener)

	token, err := svc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AT2", token)
	assert.Equal(t, 1, exchanger.refreshCalls)
	assert.Equal(t, 0, exchanger.exchangeCalls)
}

func TestToken_AuthorizesWhenNotFound(t *testing.T) {
	exchanger := &stubExchanger{tokens: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	store := &stubStore{}
	listener := &stubListener{echoState: true, result: domain.RedirectResult{Code: "auth-code-1"}}

	svc, _ := newTestSession(exchanger, store, listener)

	token, err := svc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AT1", token)
	assert.Equal(t, 1, exchanger.exchangeCalls)
	assert.Equal(t, 0, exchanger.refreshCalls)
}

func TestToken_CorruptStoreSurfaced(t *testing.T) {
	exchanger := &stubExchanger{}
	store := &stubStore{loadErr: fmt.Errorf("%w: bad json", domain.ErrTokenCorrupt)}
	listener := &stubListener{}

	svc, _ := newTestSession(exchanger, store, listener)

	_, err := svc.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenCorrupt)
	// Corrupt state is never silently discarded in favour of a new handshake.
	assert.Equal(t, 0, exchanger.exchangeCalls)
	assert.Equal(t, 0, exchanger.refreshCalls)
}

func TestToken_RefreshFailureDoesNotFallBack(t *testing.T) {
	exchanger := &stubExchanger{err: errors.New("refresh rejected")}
	store := &stubStore{stored: &domain.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"}}
	listener := &stubListener{}

	svc, _ := newTestSession(exchanger, store, listener)

	_, err := svc.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, exchanger.exchangeCalls)
}
