package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/vitos/portfolio_rotation/internal/domain"
)

const YahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches daily candles and quotes from the Yahoo Finance
// chart API. Responses are cached with a TTL so repeated cycles within
// the same hour do not re-fetch a year of history per ticker. Live
// prices pushed from a stream can be overlaid with SetLivePrice and
// take precedence over quoted closes.
type YahooClient struct {
	baseURL  string
	client   *http.Client
	cacheTTL time.Duration

	mu         sync.Mutex
	history    map[string]cachedHistory
	livePrices map[string]float64
}

type cachedHistory struct {
	candles   []domain.Candle
	fetchedAt time.Time
	days      int
}

func NewYahooClient(baseURL string, cacheTTL time.Duration) *YahooClient {
	if baseURL == "" {
		baseURL = YahooBaseURL
	}
	return &YahooClient{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		cacheTTL:   cacheTTL,
		history:    make(map[string]cachedHistory),
		livePrices: make(map[string]float64),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *YahooClient) fetchChart(ctx context.Context, ticker string, days int) (*chartResponse, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=%dd&interval=1d", ticker, days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo chart %s: status %d", ticker, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: empty result", ticker)
	}
	return &chart, nil
}

func (y *YahooClient) GetHistory(ctx context.Context, ticker string, days int) ([]domain.Candle, error) {
	y.mu.Lock()
	if cached, ok := y.history[ticker]; ok && cached.days == days && time.Since(cached.fetchedAt) < y.cacheTTL {
		candles := cached.candles
		y.mu.Unlock()
		return candles, nil
	}
	y.mu.Unlock()

	chart, err := y.fetchChart(ctx, ticker, days)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: no quote data", ticker)
	}
	quote := result.Indicators.Quote[0]

	candles := make([]domain.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Sessions with a null close (holidays, halts) are dropped.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		c := domain.Candle{
			Time:  ts,
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			c.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			c.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			c.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			c.Volume = *quote.Volume[i]
		}
		candles = append(candles, c)
	}

	y.mu.Lock()
	y.history[ticker] = cachedHistory{candles: candles, fetchedAt: time.Now(), days: days}
	y.mu.Unlock()

	return candles, nil
}

func (y *YahooClient) GetCurrentPrice(ctx context.Context, ticker string) (float64, error) {
	y.mu.Lock()
	if price, ok := y.livePrices[ticker]; ok {
		y.mu.Unlock()
		return price, nil
	}
	y.mu.Unlock()

	chart, err := y.fetchChart(ctx, ticker, 1)
	if err != nil {
		return 0, err
	}
	price := chart.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("yahoo quote %s: no market price", ticker)
	}
	return price, nil
}

// GetBatchHistory fetches history for every ticker. A ticker that fails
// is skipped rather than failing the batch; the last error is returned
// alongside the partial result.
func (y *YahooClient) GetBatchHistory(ctx context.Context, tickers []string, days int) (map[string][]domain.Candle, error) {
	out := make(map[string][]domain.Candle, len(tickers))
	var lastErr error
	for _, ticker := range tickers {
		candles, err := y.GetHistory(ctx, ticker, days)
		if err != nil {
			lastErr = err
			continue
		}
		out[ticker] = candles
	}
	return out, lastErr
}

func (y *YahooClient) GetBatchCurrentPrices(ctx context.Context, tickers []string) (map[string]float64, error) {
	out := make(map[string]float64, len(tickers))
	var lastErr error
	for _, ticker := range tickers {
		price, err := y.GetCurrentPrice(ctx, ticker)
		if err != nil {
			lastErr = err
			continue
		}
		out[ticker] = price
	}
	return out, lastErr
}

// SetLivePrice overlays a streamed price so subsequent quote reads see
// it instead of the delayed chart close.
func (y *YahooClient) SetLivePrice(ticker string, price float64) {
	if price <= 0 {
		return
	}
	y.mu.Lock()
	y.livePrices[ticker] = price
	y.mu.Unlock()
}
