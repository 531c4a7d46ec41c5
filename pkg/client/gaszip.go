package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gas-deposit/pkg/types"
)

// DefaultQuoteBaseURL is the multi-chain gas quoting service
const DefaultQuoteBaseURL = "https://backend.gas.zip/v2"

const (
	// retryMarker is the top-level error the quote service returns when at
	// least one destination chain rejected the requested amount.
	retryMarker = "Quote: Please Try Again"

	// chainLimitMarker appears in a per-chain error when the amount is below
	// that chain's minimum transferable threshold.
	chainLimitMarker = "Chain Limit Exceeded"
)

// ChainDiagnostic is a per-destination-chain rejection reported by the quote
// service, preserved verbatim.
type ChainDiagnostic struct {
	ChainID int64
	Message string
}

// NegotiationError is returned when the quote service rejects a request or
// produces an unusable quote. Body always carries the raw response text;
// Hint is set only when the rejection matched a recognized pattern.
type NegotiationError struct {
	StatusCode int
	Reason     string
	Body       string
	PerChain   []ChainDiagnostic
	Hint       string
}

func (e *NegotiationError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = e.Body
	}
	if e.Hint != "" {
		return fmt.Sprintf("quote rejected (status %d): %s. %s", e.StatusCode, msg, e.Hint)
	}
	return fmt.Sprintf("quote rejected (status %d): %s", e.StatusCode, msg)
}

// DiagnosticMatcher reports whether a per-chain error message means the
// requested amount is below that chain's minimum. The matching rule is
// isolated here because the service's error text is unversioned and may
// change independently of the response shape.
type DiagnosticMatcher func(message string) bool

// ChainLimitMatcher is the default matcher for the service's current
// "amount too small" wording.
func ChainLimitMatcher(message string) bool {
	return strings.Contains(message, chainLimitMarker)
}

// GasQuoteClient negotiates deposit calldata with the gas quoting service
type GasQuoteClient struct {
	baseURL    string
	httpClient *http.Client
	matcher    DiagnosticMatcher
}

// NewGasQuoteClient creates a quote service client. An empty baseURL selects
// the default public endpoint.
func NewGasQuoteClient(baseURL string) *GasQuoteClient {
	if baseURL == "" {
		baseURL = DefaultQuoteBaseURL
	}

	return &GasQuoteClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		matcher: ChainLimitMatcher,
	}
}

// SetDiagnosticMatcher overrides the rule used to recognize "amount too
// small" rejections in per-chain error text.
func (c *GasQuoteClient) SetDiagnosticMatcher(m DiagnosticMatcher) {
	if m != nil {
		c.matcher = m
	}
}

// quoteSuccessResponse is the subset of a successful quote we consume; the
// service returns additional per-chain fields we pass over.
type quoteSuccessResponse struct {
	Calldata string `json:"calldata"`
}

type quoteErrorResponse struct {
	Error  string `json:"error"`
	Quotes []struct {
		Chain int64  `json:"chain"`
		Error string `json:"error"`
	} `json:"quotes"`
}

// FetchCalldata requests deposit calldata for distributing req.Amount across
// req.DestinationChainIDs. It performs exactly one network request, never
// mutates req, and fails with *NegotiationError when the service rejects the
// request or returns a quote without calldata.
func (c *GasQuoteClient) FetchCalldata(ctx context.Context, req *types.DepositRequest) (*types.CalldataQuote, error) {
	ids := make([]string, 0, len(req.DestinationChainIDs))
	for _, id := range req.DestinationChainIDs {
		ids = append(ids, strconv.FormatUint(id, 10))
	}

	query := url.Values{}
	// "from" overrides the quote's sender context so refunds route to a
	// fixed address independent of the signing key.
	query.Set("from", req.RefundFromAddress)
	query.Set("to", req.ToAddress)

	endpoint := fmt.Sprintf("%s/quotes/%d/%s/%s?%s",
		c.baseURL, req.SourceChainID, req.Amount.String(), strings.Join(ids, ","), query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.negotiationError(resp.StatusCode, body)
	}

	var success quoteSuccessResponse
	if err := json.Unmarshal(body, &success); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	// A nominally successful quote without calldata cannot be submitted;
	// treat it the same as a rejection.
	if success.Calldata == "" {
		return nil, &NegotiationError{
			StatusCode: resp.StatusCode,
			Reason:     "quote response contained no calldata",
			Body:       string(body),
		}
	}

	return &types.CalldataQuote{Calldata: success.Calldata}, nil
}

// negotiationError interprets a failed quote response. When the body parses
// as the service's structured error shape, per-chain diagnostics are
// collected verbatim, and a retryable rejection with chain-limit errors is
// enriched with a hint naming the affected chains. Anything unparseable is
// carried through raw.
func (c *GasQuoteClient) negotiationError(status int, body []byte) *NegotiationError {
	negErr := &NegotiationError{
		StatusCode: status,
		Body:       string(body),
	}

	var parsed quoteErrorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return negErr
	}

	negErr.Reason = parsed.Error
	for _, q := range parsed.Quotes {
		if q.Error != "" {
			negErr.PerChain = append(negErr.PerChain, ChainDiagnostic{
				ChainID: q.Chain,
				Message: q.Error,
			})
		}
	}

	if parsed.Error != retryMarker {
		return negErr
	}

	var limited []string
	for _, d := range negErr.PerChain {
		if c.matcher(d.Message) {
			limited = append(limited, strconv.FormatInt(d.ChainID, 10))
		}
	}

	if len(limited) > 0 {
		negErr.Hint = fmt.Sprintf(
			"the amount is too small for chain(s) %s; retry with a larger amount to clear the per-chain minimum",
			strings.Join(limited, ", "))
	}

	return negErr
}

// ChainInfo describes one chain supported by the quote service
type ChainInfo struct {
	ChainID int64  `json:"chain"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type chainsResponse struct {
	Chains []ChainInfo `json:"chains"`
}

// ListChains retrieves the chains the quote service can deliver gas to
func (c *GasQuoteClient) ListChains(ctx context.Context) ([]ChainInfo, error) {
	endpoint := c.baseURL + "/chains"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build chains request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chains request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote service returned status code %d", resp.StatusCode)
	}

	var payload chainsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chains response: %w", err)
	}

	return payload.Chains, nil
}
