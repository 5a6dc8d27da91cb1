package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/wellfetch/withings-cli/internal/core/domain"
)

// stateLength is the number of characters in a CSRF state token.
const stateLength = 12

// stateAlphabet is the fixed charset for state tokens. Case-sensitive;
// easily-confused characters are left out.
const stateAlphabet = "ABCDEfghiJKLnmoQRStuvWxyZ1234567890"

// generateState creates a random state parameter for CSRF protection.
// Each character is drawn uniformly from stateAlphabet.
func generateState() (string, error) {
	alphabetSize := big.NewInt(int64(len(stateAlphabet)))
	buf := make([]byte, stateLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate state: %w", err)
		}
		buf[i] = stateAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// validateState checks the redirect's state against the one generated for
// this handshake. Exact string equality; any mismatch is a hard failure
// and the handshake must not proceed to token exchange.
func validateState(received, expected string) error {
	if received != expected {
		return fmt.Errorf("%w: expected %q, got %q", domain.ErrStateMismatch, expected, received)
	}
	return nil
}
