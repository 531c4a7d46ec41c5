package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"gas-deposit/pkg/types"
)

// DefaultPriceBaseURL is the public price feed queried for fiat estimates
const DefaultPriceBaseURL = "https://api.coingecko.com/api/v3"

// PriceClient fetches asset/fiat exchange rates from a public price feed.
// Price lookups are informational only: every failure mode is reported on
// the console and replaced with a zero-price quote, so a broken or
// unreachable feed never stops a deposit run.
type PriceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPriceClient creates a price feed client. An empty baseURL selects the
// default public endpoint.
func NewPriceClient(baseURL string) *PriceClient {
	if baseURL == "" {
		baseURL = DefaultPriceBaseURL
	}

	return &PriceClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchPrice returns the current unit price of asset denominated in fiat.
// It performs exactly one network request and never returns an error; the
// returned quote carries UnitPrice == 0 when the lookup failed.
func (c *PriceClient) FetchPrice(ctx context.Context, asset, fiat string) types.PriceQuote {
	quote := types.PriceQuote{Asset: asset, FiatCurrency: fiat}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.baseURL, url.QueryEscape(asset), url.QueryEscape(fiat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fmt.Printf("[price] failed to build price request: %v\n", err)
		return quote
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fmt.Printf("[price] price lookup failed: %v\n", err)
		return quote
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("[price] price feed returned status code %d\n", resp.StatusCode)
		return quote
	}

	// Response shape: { "<asset>": { "<fiat>": <price> } }
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		fmt.Printf("[price] failed to decode price response: %v\n", err)
		return quote
	}

	price, ok := payload[asset][fiat]
	if !ok {
		fmt.Printf("[price] no %s price for '%s' in response\n", fiat, asset)
		return quote
	}

	quote.UnitPrice = price
	return quote
}
