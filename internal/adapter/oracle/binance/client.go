package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crypto-trading-sim/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Client implements ports.PriceOracle against the Binance spot market
// REST API. Symbols are quoted against USDT, so "BTC" maps to the
// "BTCUSDT" trading pair.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Binance REST client with the given base URL and
// request timeout.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// GetPrice fetches the current spot price for a symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var body tickerPrice
	if err := c.get(ctx, "/api/v3/ticker/price", pair(symbol), &body); err != nil {
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q for %s: %w", body.Price, symbol, err)
	}

	return price, nil
}

// Get24hStats fetches the rolling 24 hour ticker statistics for a symbol.
func (c *Client) Get24hStats(ctx context.Context, symbol string) (*domain.TickerStats, error) {
	var body ticker24h
	if err := c.get(ctx, "/api/v3/ticker/24hr", pair(symbol), &body); err != nil {
		return nil, err
	}

	last, err := decimal.NewFromString(body.LastPrice)
	if err != nil {
		return nil, fmt.Errorf("parse lastPrice %q for %s: %w", body.LastPrice, symbol, err)
	}
	change, err := decimal.NewFromString(body.PriceChange)
	if err != nil {
		return nil, fmt.Errorf("parse priceChange %q for %s: %w", body.PriceChange, symbol, err)
	}
	changePct, err := decimal.NewFromString(body.PriceChangePercent)
	if err != nil {
		return nil, fmt.Errorf("parse priceChangePercent %q for %s: %w", body.PriceChangePercent, symbol, err)
	}

	return &domain.TickerStats{
		Symbol:             symbol,
		LastPrice:          last,
		PriceChange:        change,
		PriceChangePercent: changePct,
	}, nil
}

func (c *Client) get(ctx context.Context, path, tradingPair string, out any) error {
	u := fmt.Sprintf("%s%s?symbol=%s", c.baseURL, path, url.QueryEscape(tradingPair))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("binance request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read binance response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := apiError{}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Msg != "" {
			return fmt.Errorf("binance %s: status %d code %d: %s", path, resp.StatusCode, apiErr.Code, apiErr.Msg)
		}
		return fmt.Errorf("binance %s: status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode binance response: %w", err)
	}
	return nil
}

// pair maps a base asset symbol to its USDT trading pair.
func pair(symbol string) string {
	return strings.ToUpper(symbol) + "USDT"
}
