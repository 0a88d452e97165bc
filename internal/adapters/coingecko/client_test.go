package coingecko

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.CoinGeckoConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
		MaxRetries:     3,
	}, zaptest.NewLogger(t))
	return client, server
}

func TestFetchSimplePrices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "test-key", r.Header.Get("x-cg-demo-api-key"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"bitcoin":  {"usd": 50000, "usd_24h_change": 1.2},
			"ethereum": {"usd": 3000},
		})
	})

	prices, err := client.FetchSimplePrices(context.Background(), []string{"bitcoin", "ethereum"}, []string{"usd"})

	require.NoError(t, err)
	assert.Equal(t, float64(50000), prices["bitcoin"]["usd"])
	assert.Equal(t, float64(3000), prices["ethereum"]["usd"])
}

func TestGet_RetriesTransientFailures(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]map[string]float64{
			"bitcoin": {"usd": 50000},
		})
	})

	prices, err := client.FetchSimplePrices(context.Background(), []string{"bitcoin"}, []string{"usd"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, float64(50000), prices["bitcoin"]["usd"])
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchSimplePrices(context.Background(), []string{"nope"}, []string{"usd"})

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchGlobal_UnwrapsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/global", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"active_cryptocurrencies":12000,"market_cap_change_percentage_24h_usd":-1.5}}`))
	})

	stats, err := client.FetchGlobal(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12000, stats.ActiveCryptocurrencies)
	assert.InDelta(t, -1.5, stats.MarketCapChangePercentage24h, 0.0001)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, isRetryable(&APIError{StatusCode: http.StatusBadGateway}))
	assert.False(t, isRetryable(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, isRetryable(&APIError{StatusCode: http.StatusNotFound}))
}
