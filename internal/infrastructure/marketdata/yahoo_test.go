package marketdata_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/portfolio_rotation/internal/infrastructure/marketdata"
)

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"regularMarketPrice": 105.5},
			"timestamp": [1700000000, 1700086400, 1700172800],
			"indicators": {"quote": [{
				"open":   [100, 101, null],
				"high":   [102, 103, 104],
				"low":    [99, 100, 101],
				"close":  [101, 102, null],
				"volume": [1000, 1100, 1200]
			}]}
		}],
		"error": null
	}
}`

func newChartServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		fmt.Fprint(w, chartBody)
	}))
}

func TestGetHistoryDropsNullCloses(t *testing.T) {
	var hits int32
	srv := newChartServer(t, &hits)
	defer srv.Close()

	client := marketdata.NewYahooClient(srv.URL, time.Hour)
	candles, err := client.GetHistory(context.Background(), "NVDA", 365)
	require.NoError(t, err)

	// Third bar has a null close and is dropped.
	require.Len(t, candles, 2)
	assert.Equal(t, 101.0, candles[0].Close)
	assert.Equal(t, 1000.0, candles[0].Volume)
	assert.Equal(t, 102.0, candles[1].Close)
}

func TestGetHistoryCaches(t *testing.T) {
	var hits int32
	srv := newChartServer(t, &hits)
	defer srv.Close()

	client := marketdata.NewYahooClient(srv.URL, time.Hour)
	_, err := client.GetHistory(context.Background(), "NVDA", 365)
	require.NoError(t, err)
	_, err = client.GetHistory(context.Background(), "NVDA", 365)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetCurrentPricePrefersLive(t *testing.T) {
	var hits int32
	srv := newChartServer(t, &hits)
	defer srv.Close()

	client := marketdata.NewYahooClient(srv.URL, time.Hour)

	price, err := client.GetCurrentPrice(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 105.5, price)

	client.SetLivePrice("NVDA", 107.25)
	price, err = client.GetCurrentPrice(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 107.25, price)
}

func TestGetBatchSkipsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v8/finance/chart/BAD" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	client := marketdata.NewYahooClient(srv.URL, time.Hour)
	history, err := client.GetBatchHistory(context.Background(), []string{"NVDA", "BAD"}, 365)
	assert.Error(t, err)
	require.Len(t, history, 1)
	assert.Contains(t, history, "NVDA")
}
