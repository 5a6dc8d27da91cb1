package driven

import (
	"context"

	"github.com/wellfetch/withings-cli/internal/core/domain"
)

// TokenExchanger performs the provider's two token-acquiring operations.
// Both hit the same token endpoint with different grant parameters.
// Implementations hold the client credentials; no operation retries.
type TokenExchanger interface {
	// ExchangeCode swaps an authorization code for a fresh token set
	// (grant_type=authorization_code). The redirectURI must match the one
	// used in the authorization request.
	ExchangeCode(ctx context.Context, code, redirectURI string) (*domain.TokenSet, error)

	// ExchangeRefresh swaps a refresh token for a fresh token set
	// (grant_type=refresh_token).
	ExchangeRefresh(ctx context.Context, refreshToken string) (*domain.TokenSet, error)
}
