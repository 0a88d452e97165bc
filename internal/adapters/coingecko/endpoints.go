package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FetchSimplePrices calls /simple/price for the given coin ids and
// vs-currencies, including 24h change and market cap fields.
func (c *Client) FetchSimplePrices(ctx context.Context, coinIDs, vsCurrencies []string) (SimplePrices, error) {
	params := url.Values{}
	params.Set("ids", strings.Join(coinIDs, ","))
	params.Set("vs_currencies", strings.Join(vsCurrencies, ","))
	params.Set("include_24hr_change", "true")
	params.Set("include_market_cap", "true")

	var prices SimplePrices
	if err := c.get(ctx, "/simple/price", params, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// FetchGlobal calls /global.
func (c *Client) FetchGlobal(ctx context.Context) (*GlobalStats, error) {
	var envelope globalEnvelope
	if err := c.get(ctx, "/global", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// FetchListings calls /coins/markets.
func (c *Client) FetchListings(ctx context.Context, page, perPage int, order string) ([]ListingCoin, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", order)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("sparkline", "true")
	params.Set("price_change_percentage", "1h,24h,7d")

	var listings []ListingCoin
	if err := c.get(ctx, "/coins/markets", params, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// FetchTrending calls /search/trending.
func (c *Client) FetchTrending(ctx context.Context) (*TrendingResult, error) {
	var trending TrendingResult
	if err := c.get(ctx, "/search/trending", nil, &trending); err != nil {
		return nil, err
	}
	return &trending, nil
}

// FetchCoinDetail calls /coins/{id} with the heavyweight sections off.
func (c *Client) FetchCoinDetail(ctx context.Context, coinID string) (*CoinDetail, error) {
	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("market_data", "true")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")

	var detail CoinDetail
	if err := c.get(ctx, "/coins/"+url.PathEscape(coinID), params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FetchMarketChart calls /coins/{id}/market_chart. Intra-day ranges use
// hourly granularity, longer ranges daily.
func (c *Client) FetchMarketChart(ctx context.Context, coinID string, days int) (*MarketChart, error) {
	interval := "daily"
	if days <= 1 {
		interval = "hourly"
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))
	params.Set("interval", interval)

	var chart MarketChart
	path := fmt.Sprintf("/coins/%s/market_chart", url.PathEscape(coinID))
	if err := c.get(ctx, path, params, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

// Search calls /search. Results are not cached.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var result SearchResult
	if err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchCoinList calls /coins/list.
func (c *Client) FetchCoinList(ctx context.Context) ([]CoinListEntry, error) {
	var list []CoinListEntry
	if err := c.get(ctx, "/coins/list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
