package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wellfetch/withings-cli/internal/core/domain"
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Run the browser authorization flow and store tokens",
	Long: `Run the OAuth2 authorization-code handshake.

Prints the Withings authorization URL, waits for the browser redirect on
the local listener port, exchanges the authorization code, and stores the
access/refresh token pair.

Use this for first-time setup or when the stored refresh token has been
rejected. For routine renewal, use 'withings refresh'.`,
	RunE: runAuthorize,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Renew the stored token pair via the refresh token",
	Long: `Renew the stored access/refresh token pair without user interaction.

Fails if no token pair has been stored yet; run 'withings authorize' first.
A rejected refresh token also fails rather than silently restarting the
browser flow, so a possibly recoverable failure is never discarded.`,
	RunE: runRefresh,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a valid access token",
	Long: `Print a valid access token to stdout, for use with curl or other tools.

Refreshes the stored token pair when one exists; starts the browser
authorization flow only when nothing has been stored yet.`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(authorizeCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runAuthorize(cmd *cobra.Command, _ []string) error {
	svc, _, err := newSession(cmd)
	if err != nil {
		return err
	}

	token, err := svc.ObtainToken(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrTokenPersist) && token != "" {
			cmd.Printf("Access token (NOT saved): %s\n", token)
		}
		return err
	}

	cmd.Printf("Authorization complete. Access token: %s\n", maskToken(token))
	return nil
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	svc, _, err := newSession(cmd)
	if err != nil {
		return err
	}

	token, err := svc.RefreshToken(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrTokenPersist) && token != "" {
			cmd.Printf("Access token (NOT saved): %s\n", token)
		}
		return err
	}

	cmd.Printf("Tokens renewed. Access token: %s\n", maskToken(token))
	return nil
}

func runToken(cmd *cobra.Command, _ []string) error {
	svc, _, err := newSession(cmd)
	if err != nil {
		return err
	}

	token, err := svc.Token(cmd.Context())
	if err != nil {
		return err
	}

	// Bare token on stdout so it can be captured by scripts.
	cmd.Println(token)
	return nil
}
