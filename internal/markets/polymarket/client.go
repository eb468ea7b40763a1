package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "predtrack/internal/platform/http"
	"predtrack/models"
)

// Client is the Polymarket gamma API client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Polymarket client
type ClientOptions struct {
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// gammaMarket mirrors the subset of the gamma /markets response we consume.
// outcomes and outcomePrices arrive as JSON-encoded string arrays inside a
// string field, e.g. "[\"Yes\", \"No\"]".
type gammaMarket struct {
	Slug          string `json:"slug"`
	Question      string `json:"question"`
	Closed        bool   `json:"closed"`
	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`
	UpdatedAt     string `json:"updatedAt"`
}

// NewClient creates a new Polymarket API client
func NewClient(options ClientOptions) *Client {
	base := options.BaseURL
	if base == "" {
		base = "https://gamma-api.polymarket.com"
	}
	return &Client{
		baseURL: base,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:        options.RequestTimeout,
			RequestsPerSec: options.RequestsPerSec,
		}),
		logger: log.With().Str("component", "polymarket_client").Logger(),
	}
}

// Name implements models.MarketProvider.
func (c *Client) Name() string {
	return "polymarket"
}

// Status fetches the market with the given slug and reduces it to the uniform
// settlement shape. The market is settled once the gamma API marks it closed;
// the winning side is whichever outcome carries the final price.
func (c *Client) Status(ctx context.Context, slug string) (models.MarketStatus, error) {
	endpoint := fmt.Sprintf("%s/markets?slug=%s", c.baseURL, url.QueryEscape(slug))

	c.logger.Debug().Str("slug", slug).Msg("Fetching market status")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.MarketStatus{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return models.MarketStatus{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.MarketStatus{}, fmt.Errorf("reading response body: %w", err)
	}

	var markets []gammaMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return models.MarketStatus{}, fmt.Errorf("parsing JSON: %w", err)
	}
	if len(markets) == 0 {
		return models.MarketStatus{}, fmt.Errorf("no market for slug %q", slug)
	}
	market := markets[0]

	yesProb, err := yesPrice(market.OutcomePrices)
	if err != nil {
		return models.MarketStatus{}, fmt.Errorf("market %q: %w", slug, err)
	}

	status := models.MarketStatus{
		Resolved:    market.Closed,
		CurrentProb: yesProb,
		LastUpdated: market.UpdatedAt,
	}
	if market.Closed {
		if yesProb >= 0.5 {
			status.Outcome = models.OutcomeYes
		} else {
			status.Outcome = models.OutcomeNo
		}
	}

	c.logger.Debug().
		Str("slug", slug).
		Bool("resolved", status.Resolved).
		Float64("prob", status.CurrentProb).
		Msg("Fetched market status")
	return status, nil
}

// yesPrice decodes the doubly-encoded outcomePrices field and returns the
// price of the first (YES) outcome.
func yesPrice(encoded string) (float64, error) {
	var prices []string
	if err := json.Unmarshal([]byte(encoded), &prices); err != nil {
		return 0, fmt.Errorf("parsing outcomePrices %q: %w", encoded, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("empty outcomePrices")
	}
	p, err := strconv.ParseFloat(prices[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing price %q: %w", prices[0], err)
	}
	return p, nil
}
