package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/wellfetch/withings-cli/internal/logger"
)

// Environment variables that override file-based settings. Credentials in
// the environment win over credentials in the settings file.
const (
	EnvClientID     = "WITHINGS_CLIENT_ID"
	EnvClientSecret = "WITHINGS_CLIENT_SECRET"
)

// Settings holds the OAuth app configuration for this installation.
type Settings struct {
	// ClientID and ClientSecret are issued when registering the app with
	// Withings.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`

	// AuthURL, TokenURL and APIURL default to the production Withings
	// endpoints when empty. Overridable so tests can point at a mock.
	AuthURL  string `toml:"auth_url,omitempty"`
	TokenURL string `toml:"token_url,omitempty"`
	APIURL   string `toml:"api_url,omitempty"`

	// ListenPort is the redirect listener port. Must match the redirect
	// URI registered with Withings. Zero means the default (8888).
	ListenPort int `toml:"listen_port,omitempty"`

	// Scopes are the permission scopes to request during authorization.
	Scopes []string `toml:"scopes,omitempty"`

	// TokenFile is where the access/refresh pair is persisted. Empty means
	// the WITHINGS_CONFIG_FILE environment variable, then config.json.
	TokenFile string `toml:"token_file,omitempty"`
}

// DefaultSettingsPath returns ~/.withings/config.toml.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".withings", "config.toml"), nil
}

// LoadSettings reads settings from the TOML file at path, then applies
// environment overrides. A missing file is not an error: the environment
// alone can carry the credentials.
func LoadSettings(path string) (*Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Debug("no settings file at %s, using environment only", path)
	case err != nil:
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvClientID); v != "" {
		s.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		s.ClientSecret = v
	}

	return &s, nil
}

// SaveSettings writes settings to the TOML file at path, creating the
// parent directory with restricted permissions if needed.
func SaveSettings(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	// The file holds the client secret; keep it private.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}

	logger.Debug("saved settings to %s", path)
	return nil
}
