package withings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/wellfetch/withings-cli/internal/core/domain"
	"github.com/wellfetch/withings-cli/internal/logger"
)

// DefaultAPIURL is the base URL for Withings data endpoints.
const DefaultAPIURL = "https://wbsapi.withings.net"

// actionGetMeas selects the measure listing operation.
const actionGetMeas = "getmeas"

// measureRateLimit keeps well under the Withings per-client quota
// (120 requests per minute).
var measureRateLimit = rate.Limit(1.5)

// MeasureClient calls the measure-getmeas endpoint. Access tokens come
// from an oauth2.TokenSource so the client stays decoupled from how tokens
// are obtained or refreshed.
type MeasureClient struct {
	apiURL     string
	clientID   string
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewMeasureClient creates a measure client. An empty apiURL falls back to
// the production endpoint.
func NewMeasureClient(apiURL, clientID string, tokens oauth2.TokenSource) *MeasureClient {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &MeasureClient{
		apiURL:     apiURL,
		clientID:   clientID,
		tokens:     tokens,
		limiter:    rate.NewLimiter(measureRateLimit, 3),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetMeasurements retrieves measurements matching the query.
func (c *MeasureClient) GetMeasurements(ctx context.Context, q domain.MeasureQuery) (*domain.MeasureResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("measure: no access token: %w", err)
	}

	params := url.Values{}
	params.Set("action", actionGetMeas)
	params.Set("access_token", token.AccessToken)
	params.Set("client_id", c.clientID)
	params.Set("meastype", q.Type.String())
	params.Set("category", q.Category.String())
	if q.Start != "" {
		params.Set("startdate", q.Start)
	}
	if q.End != "" {
		params.Set("enddate", q.End)
	}
	if q.Offset != "" {
		params.Set("offset", q.Offset)
	}
	if q.LastUpdate != "" {
		params.Set("lastupdate", q.LastUpdate)
	}

	reqURL := c.apiURL + "/measure?" + params.Encode()
	logger.Debug("measure request: meastype=%s category=%s", q.Type, q.Category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create measure request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("measure request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("measure request failed with status %d", resp.StatusCode)
	}

	var measures domain.MeasureResponse
	if err := json.NewDecoder(resp.Body).Decode(&measures); err != nil {
		return nil, fmt.Errorf("decode measure response: %w", err)
	}

	if measures.Status != 0 {
		return nil, fmt.Errorf("measure request rejected: withings status %d", measures.Status)
	}

	return &measures, nil
}
