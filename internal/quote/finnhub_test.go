package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stockpulse/internal/errors"
	"stockpulse/pkg/utils"
)

func fastRetry() utils.RetryConfig {
	return utils.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		Retry:   fastRetry(),
	})
}

func TestGetQuote_ParsesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Finnhub-Token"); got != "test-key" {
			t.Errorf("token header = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol param = %q, want AAPL", got)
		}
		w.Write([]byte(`{"c":227.5,"d":1.2,"dp":0.53,"h":229.0,"l":225.1,"o":226.0,"pc":226.3,"t":1756500000}`))
	}))
	defer server.Close()

	q, err := newTestClient(server.URL).GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}

	if q.Symbol != "AAPL" || q.Current != 227.5 || q.PrevClose != 226.3 {
		t.Errorf("quote = %+v, want parsed payload values", q)
	}
	if q.Change != 1.2 || q.ChangePercent != 0.53 {
		t.Errorf("change fields = (%v, %v), want (1.2, 0.53)", q.Change, q.ChangePercent)
	}
	if q.Timestamp.Unix() != 1756500000 {
		t.Errorf("timestamp = %v, want unix 1756500000", q.Timestamp)
	}
}

func TestGetQuote_UnknownSymbolZeroBody(t *testing.T) {
	// Finnhub reports unknown symbols as HTTP 200 with an all-zero body.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":0,"d":0,"dp":0,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetQuote(context.Background(), "NOSUCH")
	if !errors.Is(err, errors.ErrSymbolNotFound) {
		t.Errorf("error = %v, want ErrSymbolNotFound", err)
	}

	var qe *errors.QuoteError
	if !errors.As(err, &qe) || qe.Symbol != "NOSUCH" {
		t.Errorf("error should carry the symbol, got %v", err)
	}
}

func TestGetQuote_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, errors.ErrRateLimited},
		{"not found", http.StatusNotFound, errors.ErrSymbolNotFound},
		{"server error", http.StatusInternalServerError, errors.ErrQuoteNetwork},
		{"bad gateway", http.StatusBadGateway, errors.ErrQuoteNetwork},
		{"unauthorized", http.StatusUnauthorized, errors.ErrQuoteUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GetQuote(context.Background(), "AAPL")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetQuote_RetriesNetworkErrorsOnly(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"c":100.0,"t":1756500000}`))
	}))
	defer server.Close()

	q, err := newTestClient(server.URL).GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if q.Current != 100.0 {
		t.Errorf("current = %v, want 100", q.Current)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("server calls = %d, want 2 (one retry)", got)
	}
}

func TestGetQuote_NoRetryOnRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, errors.ErrRateLimited) {
		t.Fatalf("error = %v, want ErrRateLimited", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server calls = %d, want 1 (no retry)", got)
	}
}

func TestGetCandles_ParsesColumnarPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("resolution"); got != "D" {
			t.Errorf("resolution param = %q, want D", got)
		}
		w.Write([]byte(`{
			"s": "ok",
			"o": [100.0, 104.0],
			"h": [105.0, 110.0],
			"l": [99.0, 103.0],
			"c": [104.0, 108.0],
			"v": [50000, 62000],
			"t": [1756000000, 1756086400]
		}`))
	}))
	defer server.Close()

	from := time.Unix(1755900000, 0)
	to := time.Unix(1756100000, 0)
	candles, err := newTestClient(server.URL).GetCandles(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}
	first := candles[0]
	if first.Open != 100 || first.High != 105 || first.Low != 99 || first.Close != 104 || first.Volume != 50000 {
		t.Errorf("first candle = %+v, want row 0 of the payload", first)
	}
	if first.Timestamp.Unix() != 1756000000 {
		t.Errorf("first timestamp = %v, want unix 1756000000", first.Timestamp)
	}
}

func TestGetCandles_NoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"no_data"}`))
	}))
	defer server.Close()

	candles, err := newTestClient(server.URL).GetCandles(context.Background(), "AAPL", time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if candles != nil {
		t.Errorf("candles = %+v, want nil for no_data", candles)
	}
}
