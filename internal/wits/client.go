// Package wits wraps the WITS trade-data API and shields callers from its
// error shapes and country-code scheme.
package wits

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

	"github.com/tradewind/marketintel/internal/domain"
)

const (
	defaultBaseURL = "https://wits.worldbank.org/API/V1"
	defaultTimeout = 15 * time.Second
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the transport timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// Client is an HTTP client for the WITS trade-data API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a WITS API client. The API key is optional; when set it
// is sent as a static header on every request.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetTradeFlow fetches one trade-flow observation. The product code is
// required; reporter and partner are normalized to upstream codes; a zero
// year defaults to the previous calendar year.
func (c *Client) GetTradeFlow(ctx context.Context, q TradeFlowQuery) (*TradeFlowRecord, error) {
	if strings.TrimSpace(q.ProductCode) == "" {
		return nil, domain.ErrValidation("productCode is required").
			WithDetail("parameter", "productCode")
	}

	params := url.Values{}
	params.Set("reporter", NormalizeCountryCode(q.Reporter))
	params.Set("partner", NormalizeCountryCode(q.Partner))
	params.Set("productCode", q.ProductCode)
	params.Set("year", strconv.Itoa(defaultYear(q.Year)))

	var record TradeFlowRecord
	if err := c.do(ctx, "/trade-flows", params, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetTariff fetches one tariff-rate observation over the tariff endpoint,
// with the same validation and normalization shape as GetTradeFlow.
func (c *Client) GetTariff(ctx context.Context, q TariffQuery) (*TariffRecord, error) {
	if strings.TrimSpace(q.ProductCode) == "" {
		return nil, domain.ErrValidation("productCode is required").
			WithDetail("parameter", "productCode")
	}

	params := url.Values{}
	params.Set("reporter", NormalizeCountryCode(q.Reporter))
	params.Set("partner", NormalizeCountryCode(q.Partner))
	params.Set("productCode", q.ProductCode)
	params.Set("year", strconv.Itoa(defaultYear(q.Year)))

	var record TariffRecord
	if err := c.do(ctx, "/tariffs", params, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// NormalizeResponseForCaller overwrites the echoed partner field with the
// caller's original market token, so a caller who asked about "UAE" sees
// "UAE" back rather than the upstream's "ARE".
func NormalizeResponseForCaller(record *TradeFlowRecord, originalMarket string) *TradeFlowRecord {
	if record == nil || strings.TrimSpace(originalMarket) == "" {
		return record
	}
	record.Partner = originalMarket
	return record
}

// do issues one upstream GET and decodes the response into dest. It is the
// single translation point: every upstream failure funnels through
// translateError, so individual methods never re-implement the mapping.
func (c *Client) do(ctx context.Context, path string, params url.Values, dest any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ErrInternal(fmt.Sprintf("failed to build upstream request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ErrExternalAPI("trade data API unreachable").
			WithDetail("original_error", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ErrExternalAPI("failed to read trade data API response").
			WithDetail("original_error", err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return translateError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return domain.ErrExternalAPI("invalid trade data API response body").
			WithDetail("original_error", err.Error())
	}
	return nil
}

// translateError maps an upstream failure status to the error taxonomy.
// Upstream 404 deliberately maps to a validation error rather than
// NOT_FOUND, matching the reference behavior; see the client tests.
func translateError(status int, body []byte) *domain.APIError {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)
	message := parsed.text()

	switch {
	case status == http.StatusBadRequest:
		if message == "" {
			message = "invalid parameters for trade data API"
		}
		return domain.ErrValidation(message).WithDetail("upstream_status", status)
	case status == http.StatusNotFound:
		return domain.ErrValidation("requested trade data resource not found").
			WithDetail("upstream_status", status)
	case status >= http.StatusInternalServerError:
		if message == "" {
			message = "trade data API error"
		}
		return domain.ErrExternalAPI(message).WithDetail("upstream_status", status)
	default:
		if message == "" {
			message = fmt.Sprintf("unexpected trade data API status %d", status)
		}
		return domain.ErrExternalAPI(message).WithDetail("upstream_status", status)
	}
}

// defaultYear substitutes the previous calendar year for a zero year value.
func defaultYear(year int) int {
	if year > 0 {
		return year
	}
	return time.Now().Year() - 1
}
