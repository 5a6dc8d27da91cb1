package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wellfetch/withings-cli/internal/core/domain"
	"github.com/wellfetch/withings-cli/internal/core/ports/driven"
	"github.com/wellfetch/withings-cli/internal/logger"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// EnvTokenFile overrides the token file path.
const EnvTokenFile = "WITHINGS_CONFIG_FILE"

// defaultTokenFile matches the path the original Withings tooling used.
const defaultTokenFile = "config.json"

// persistedTokens is the on-disk projection of a TokenSet. Expiry is not
// persisted; staleness is discovered when the provider rejects the token.
type persistedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenStore persists the token pair as a small JSON file.
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store at the given path. An empty path
// falls back to the WITHINGS_CONFIG_FILE environment variable, then to
// config.json in the working directory.
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = os.Getenv(EnvTokenFile)
	}
	if path == "" {
		path = defaultTokenFile
	}
	return &TokenStore{path: path}
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return s.path
}

// Load reads the stored token set.
func (s *TokenStore) Load() (*domain.TokenSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTokenNotFound, s.path)
		}
		return nil, fmt.Errorf("read token file %s: %w", s.path, err)
	}

	var stored persistedTokens
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTokenCorrupt, s.path, err)
	}
	if stored.AccessToken == "" || stored.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s: missing token fields", domain.ErrTokenCorrupt, s.path)
	}

	logger.Debug("loaded token set from %s", s.path)
	return &domain.TokenSet{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
	}, nil
}

// Save replaces the stored token set wholesale. The new content is written
// to a temp file in the same directory and renamed into place, so a failed
// write never leaves a truncated file a later Load would accept.
func (s *TokenStore) Save(tokens *domain.TokenSet) error {
	if !tokens.IsComplete() {
		return fmt.Errorf("%w: refusing to save incomplete token set", domain.ErrTokenPersist)
	}

	data, err := json.MarshalIndent(persistedTokens{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTokenPersist, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tokens-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTokenPersist, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrTokenPersist, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrTokenPersist, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrTokenPersist, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrTokenPersist, err)
	}

	logger.Debug("saved token set to %s", s.path)
	return nil
}
