package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "predtrack/internal/platform/http"
	"predtrack/models"
)

// Client is the Kalshi trade API client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Kalshi client
type ClientOptions struct {
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// marketResponse mirrors the subset of GET /markets/{ticker} we consume.
// Prices are integer cents.
type marketResponse struct {
	Market struct {
		Ticker    string `json:"ticker"`
		Status    string `json:"status"`
		Result    string `json:"result"`
		LastPrice int    `json:"last_price"`
		CloseTime string `json:"close_time"`
	} `json:"market"`
}

// NewClient creates a new Kalshi API client
func NewClient(options ClientOptions) *Client {
	base := options.BaseURL
	if base == "" {
		base = "https://api.elections.kalshi.com/trade-api/v2"
	}
	return &Client{
		baseURL: base,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:        options.RequestTimeout,
			RequestsPerSec: options.RequestsPerSec,
		}),
		logger: log.With().Str("component", "kalshi_client").Logger(),
	}
}

// Name implements models.MarketProvider.
func (c *Client) Name() string {
	return "kalshi"
}

// Status fetches the market with the given ticker. Kalshi reports settlement
// through status ("finalized"/"settled") plus a yes/no result field.
func (c *Client) Status(ctx context.Context, slug string) (models.MarketStatus, error) {
	endpoint := fmt.Sprintf("%s/markets/%s", c.baseURL, url.PathEscape(slug))

	c.logger.Debug().Str("ticker", slug).Msg("Fetching market status")

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

	var data marketResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return models.MarketStatus{}, fmt.Errorf("parsing JSON: %w", err)
	}
	if data.Market.Ticker == "" {
		return models.MarketStatus{}, fmt.Errorf("no market for ticker %q", slug)
	}

	settled := data.Market.Status == "finalized" || data.Market.Status == "settled"
	status := models.MarketStatus{
		Resolved:    settled && data.Market.Result != "",
		CurrentProb: float64(data.Market.LastPrice) / 100,
		LastUpdated: data.Market.CloseTime,
	}
	if status.Resolved {
		status.Outcome = strings.ToUpper(data.Market.Result)
	}

	c.logger.Debug().
		Str("ticker", slug).
		Bool("resolved", status.Resolved).
		Float64("prob", status.CurrentProb).
		Msg("Fetched market status")
	return status, nil
}
