package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wellfetch/withings-cli/internal/adapters/driven/config/file"
	"github.com/wellfetch/withings-cli/internal/adapters/driving/redirect"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store the OAuth app credentials and listener settings",
	Long: `Interactively configure the Withings OAuth app for this machine.

You need a registered Withings application (developer.withings.com) with a
redirect URI of http://localhost:8888. The client secret is read without
echo and stored with restricted file permissions.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

//nolint:errcheck // CLI interactive flow, read errors fall through to defaults
func runConfigure(cmd *cobra.Command, _ []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	// Prefill from the existing file so reconfiguring keeps old values.
	settings, err := file.LoadSettings(path)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Withings client ID [%s]: ", settings.ClientID)
	if input := readLine(reader); input != "" {
		settings.ClientID = input
	}

	cmd.Print("Withings client secret (input hidden): ")
	if input := readPassword(); input != "" {
		settings.ClientSecret = input
	}
	cmd.Println()

	port := settings.ListenPort
	if port == 0 {
		port = redirect.DefaultPort
	}
	cmd.Printf("Redirect listener port [%d]: ", port)
	if input := readLine(reader); input != "" {
		p, err := strconv.Atoi(input)
		if err != nil || p < 1 || p > 65535 {
			return fmt.Errorf("invalid port: %s", input)
		}
		settings.ListenPort = p
	}

	cmd.Printf("Token file path [%s]: ", file.NewTokenStore(settings.TokenFile).Path())
	if input := readLine(reader); input != "" {
		settings.TokenFile = input
	}

	if err := file.SaveSettings(path, settings); err != nil {
		return err
	}

	cmd.Printf("\nSettings saved to %s\n", path)
	cmd.Println("Run 'withings authorize' to complete the browser approval.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read the secret without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
