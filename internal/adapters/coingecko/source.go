package coingecko

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/cache"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
	"github.com/coinfolio/coinfolio_service/pkg/metrics"
)

// Source serves market data through a Redis read-through cache. On
// upstream failure it falls back to the last cached copy of the same
// key, so a CoinGecko outage degrades freshness instead of breaking
// portfolio valuation.
type Source struct {
	client *Client
	cache  *cache.Cache
	logger *zap.Logger

	listingsTTL time.Duration
	globalTTL   time.Duration
	trendingTTL time.Duration
	coinTTL     time.Duration
	historyTTL  time.Duration
}

func NewSource(client *Client, c *cache.Cache, cfg config.CoinGeckoConfig, logger *zap.Logger) *Source {
	return &Source{
		client:      client,
		cache:       c,
		logger:      logger,
		listingsTTL: time.Duration(cfg.ListingsTTL) * time.Minute,
		globalTTL:   time.Duration(cfg.GlobalTTL) * time.Minute,
		trendingTTL: time.Duration(cfg.TrendingTTL) * time.Minute,
		coinTTL:     time.Duration(cfg.CoinTTL) * time.Minute,
		historyTTL:  time.Duration(cfg.HistoryTTL) * time.Minute,
	}
}

// fetchCached tries the cache, then the upstream, then the stale copy.
func fetchCached[T any](ctx context.Context, s *Source, endpoint, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		metrics.PriceFeedRequestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	start := time.Now()
	fresh, err := fetch(ctx)
	metrics.PriceFeedRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.PriceFeedRequestsTotal.WithLabelValues(endpoint, "success").Inc()
		if cacheErr := s.cache.SetJSON(ctx, key, fresh, ttl); cacheErr != nil {
			s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(cacheErr))
		}
		return fresh, nil
	}

	s.logger.Warn("Upstream fetch failed, trying stale cache",
		zap.String("endpoint", endpoint),
		zap.String("key", key),
		zap.Error(err))

	var stale T
	if staleErr := s.cache.GetStaleJSON(ctx, key, &stale); staleErr == nil {
		metrics.PriceFeedRequestsTotal.WithLabelValues(endpoint, "stale_hit").Inc()
		return stale, nil
	}

	metrics.PriceFeedRequestsTotal.WithLabelValues(endpoint, "error").Inc()
	var zero T
	return zero, apperrors.UpstreamUnavailable("coingecko").WithCause(err)
}

// GetQuotes returns current USD quotes for the given coin ids. The
// result map only contains ids the feed knows about; callers decide
// how to treat absent entries.
func (s *Source) GetQuotes(ctx context.Context, coinIDs []string) (map[string]entities.Quote, error) {
	if len(coinIDs) == 0 {
		return map[string]entities.Quote{}, nil
	}

	sorted := make([]string, len(coinIDs))
	copy(sorted, coinIDs)
	sort.Strings(sorted)
	key := "prices:" + strings.Join(sorted, ",")

	prices, err := fetchCached(ctx, s, "simple_price", key, s.listingsTTL, func(ctx context.Context) (SimplePrices, error) {
		return s.client.FetchSimplePrices(ctx, sorted, []string{"usd"})
	})
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]entities.Quote, len(prices))
	for id, fields := range prices {
		price, ok := fields["usd"]
		if !ok {
			continue
		}
		quotes[id] = entities.Quote{
			Price:     decimal.NewFromFloat(price),
			Change24h: decimal.NewFromFloat(fields["usd_24h_change"]),
			MarketCap: decimal.NewFromFloat(fields["usd_market_cap"]),
		}
	}
	return quotes, nil
}

// GetBTCPrices returns the price of bitcoin in each of the given
// vs-currencies, used to derive fiat exchange rates.
func (s *Source) GetBTCPrices(ctx context.Context, vsCurrencies []string) (map[string]float64, error) {
	key := "btc_prices:" + strings.Join(vsCurrencies, ",")

	prices, err := fetchCached(ctx, s, "simple_price", key, s.listingsTTL, func(ctx context.Context) (SimplePrices, error) {
		return s.client.FetchSimplePrices(ctx, []string{"bitcoin"}, vsCurrencies)
	})
	if err != nil {
		return nil, err
	}

	btc, ok := prices["bitcoin"]
	if !ok {
		return nil, apperrors.UpstreamUnavailable("coingecko")
	}
	return btc, nil
}

func (s *Source) GetGlobal(ctx context.Context) (*GlobalStats, error) {
	return fetchCached(ctx, s, "global", "global", s.globalTTL, s.client.FetchGlobal)
}

func (s *Source) GetListings(ctx context.Context, page, perPage int, order string) ([]ListingCoin, error) {
	key := fmt.Sprintf("listings:%d:%d:%s", page, perPage, order)
	return fetchCached(ctx, s, "listings", key, s.listingsTTL, func(ctx context.Context) ([]ListingCoin, error) {
		return s.client.FetchListings(ctx, page, perPage, order)
	})
}

func (s *Source) GetTrending(ctx context.Context) (*TrendingResult, error) {
	return fetchCached(ctx, s, "trending", "trending", s.trendingTTL, s.client.FetchTrending)
}

func (s *Source) GetCoinDetail(ctx context.Context, coinID string) (*CoinDetail, error) {
	key := "coin:" + coinID
	return fetchCached(ctx, s, "coin_detail", key, s.coinTTL, func(ctx context.Context) (*CoinDetail, error) {
		return s.client.FetchCoinDetail(ctx, coinID)
	})
}

func (s *Source) GetCoinHistory(ctx context.Context, coinID string, days int) (*MarketChart, error) {
	key := fmt.Sprintf("history:%s:%d", coinID, days)
	return fetchCached(ctx, s, "market_chart", key, s.historyTTL, func(ctx context.Context) (*MarketChart, error) {
		return s.client.FetchMarketChart(ctx, coinID, days)
	})
}

func (s *Source) GetCoinList(ctx context.Context) ([]CoinListEntry, error) {
	return fetchCached(ctx, s, "coin_list", "coinlist", s.listingsTTL, s.client.FetchCoinList)
}

// SearchCoins proxies /search without caching. Queries are too varied
// for the cache to earn its keep.
func (s *Source) SearchCoins(ctx context.Context, query string) (*SearchResult, error) {
	result, err := s.client.Search(ctx, query)
	if err != nil {
		metrics.PriceFeedRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, apperrors.UpstreamUnavailable("coingecko").WithCause(err)
	}
	metrics.PriceFeedRequestsTotal.WithLabelValues("search", "success").Inc()
	return result, nil
}
