// Package cli implements the withings command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wellfetch/withings-cli/internal/adapters/driven/config/file"
	"github.com/wellfetch/withings-cli/internal/adapters/driven/withings"
	"github.com/wellfetch/withings-cli/internal/adapters/driving/redirect"
	"github.com/wellfetch/withings-cli/internal/core/services"
	"github.com/wellfetch/withings-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "withings",
	Short: "Authenticate with the Withings API and fetch measurements",
	Long: `withings handles the OAuth2 authorization-code flow against the
Withings API, stores the resulting access/refresh token pair, and uses it
to fetch body measurements.

First-time setup:

  withings configure            # store client credentials
  withings authorize            # browser approval, saves tokens

Day-to-day use:

  withings measure --type weight
  withings refresh              # renew tokens explicitly

Client credentials can also come from the WITHINGS_CLIENT_ID and
WITHINGS_CLIENT_SECRET environment variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&flagConfig, "config", "", "Path to the settings file (default ~/.withings/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// settingsPath resolves the settings file location.
func settingsPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return file.DefaultSettingsPath()
}

// loadSettings reads the settings file and environment overrides.
func loadSettings() (*file.Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, err
	}
	return file.LoadSettings(path)
}

// newSession wires the handshake components from settings.
func newSession(cmd *cobra.Command) (*services.SessionService, *file.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	if settings.ClientID == "" || settings.ClientSecret == "" {
		return nil, nil, errors.New(
			"client credentials not configured; run 'withings configure' or set " +
				"WITHINGS_CLIENT_ID and WITHINGS_CLIENT_SECRET")
	}

	exchanger := withings.NewClient(settings.TokenURL, settings.ClientID, settings.ClientSecret)
	store := file.NewTokenStore(settings.TokenFile)
	listener := redirect.New(settings.ListenPort)

	svc := services.NewSessionService(services.SessionConfig{
		ClientID: settings.ClientID,
		AuthURL:  settings.AuthURL,
		Scopes:   settings.Scopes,
		Out:      cmd.OutOrStdout(),
	}, exchanger, store, listener)

	return svc, settings, nil
}

// maskToken shortens a token for display.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return fmt.Sprintf("%s...%s", token[:4], token[len(token)-4:])
}
