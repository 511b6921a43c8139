package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stockpulse/internal/errors"
	"stockpulse/internal/models"
	"stockpulse/pkg/utils"
)

// ClientConfig holds quote client configuration.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retry   utils.RetryConfig
}

// Client fetches quotes and candles from a Finnhub-compatible REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      utils.RetryConfig
}

// NewClient creates a new quote client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = utils.DefaultRetryConfig()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retry: cfg.Retry,
	}
}

// quoteResponse mirrors the Finnhub /quote payload.
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// candleResponse mirrors the Finnhub /stock/candle payload.
type candleResponse struct {
	Status  string    `json:"s"`
	Opens   []float64 `json:"o"`
	Highs   []float64 `json:"h"`
	Lows    []float64 `json:"l"`
	Closes  []float64 `json:"c"`
	Volumes []int64   `json:"v"`
	Times   []int64   `json:"t"`
}

// GetQuote fetches the latest traded price for a ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbol", ticker)

	var resp quoteResponse
	if err := c.getJSON(ctx, ticker, "/quote", params, &resp); err != nil {
		return nil, err
	}

	// Finnhub answers unknown symbols with HTTP 200 and an all-zero body.
	if resp.Current == 0 && resp.Timestamp == 0 {
		return nil, errors.NewQuoteError(ticker, errors.ErrSymbolNotFound, nil)
	}

	ts := time.Now()
	if resp.Timestamp > 0 {
		ts = time.Unix(resp.Timestamp, 0)
	}

	return &models.Quote{
		Symbol:        ticker,
		Current:       resp.Current,
		Open:          resp.Open,
		High:          resp.High,
		Low:           resp.Low,
		PrevClose:     resp.PrevClose,
		Change:        resp.Change,
		ChangePercent: resp.ChangePercent,
		Timestamp:     ts,
	}, nil
}

// GetCandles fetches daily OHLCV history for a ticker.
func (c *Client) GetCandles(ctx context.Context, ticker string, from, to time.Time) ([]models.Candle, error) {
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("resolution", "D")
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))

	var resp candleResponse
	if err := c.getJSON(ctx, ticker, "/stock/candle", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status == "no_data" || len(resp.Closes) == 0 {
		return nil, nil
	}

	candles := make([]models.Candle, 0, len(resp.Closes))
	for i := range resp.Closes {
		candle := models.Candle{
			Timestamp: time.Unix(resp.Times[i], 0),
			Close:     resp.Closes[i],
		}
		if i < len(resp.Opens) {
			candle.Open = resp.Opens[i]
		}
		if i < len(resp.Highs) {
			candle.High = resp.Highs[i]
		}
		if i < len(resp.Lows) {
			candle.Low = resp.Lows[i]
		}
		if i < len(resp.Volumes) {
			candle.Volume = resp.Volumes[i]
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

// getJSON performs a GET with retry on transient failures and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, ticker, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	fetch := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return errors.NewQuoteError(ticker, errors.ErrQuoteUnknown, err)
		}
		if c.apiKey != "" {
			req.Header.Set("X-Finnhub-Token", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.NewQuoteError(ticker, errors.ErrQuoteNetwork, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests:
			return errors.NewQuoteError(ticker, errors.ErrRateLimited, nil)
		case resp.StatusCode == http.StatusNotFound:
			return errors.NewQuoteError(ticker, errors.ErrSymbolNotFound, nil)
		case resp.StatusCode >= 500:
			return errors.NewQuoteError(ticker, errors.ErrQuoteNetwork, fmt.Errorf("status %d", resp.StatusCode))
		default:
			return errors.NewQuoteError(ticker, errors.ErrQuoteUnknown, fmt.Errorf("status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.NewQuoteError(ticker, errors.ErrQuoteNetwork, err)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return errors.NewQuoteError(ticker, errors.ErrQuoteUnknown, err)
		}
		return nil
	}

	return utils.Retry(ctx, c.retry, fetch, isRetryable)
}

// isRetryable reports whether a fetch failure is worth retrying within
// the same call. Not-found and rate-limit answers will not improve on
// immediate retry.
func isRetryable(err error) bool {
	return errors.Is(err, errors.ErrQuoteNetwork)
}
