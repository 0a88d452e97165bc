package coingecko

// SimplePrices is the /simple/price response: coin id to a map of
// vs-currency fields ("usd", "usd_24h_change", "usd_market_cap").
type SimplePrices map[string]map[string]float64

// ListingCoin is one row of /coins/markets.
type ListingCoin struct {
	ID                           string    `json:"id"`
	Symbol                       string    `json:"symbol"`
	Name                         string    `json:"name"`
	Image                        string    `json:"image"`
	CurrentPrice                 float64   `json:"current_price"`
	MarketCap                    float64   `json:"market_cap"`
	MarketCapRank                int       `json:"market_cap_rank"`
	TotalVolume                  float64   `json:"total_volume"`
	High24h                      float64   `json:"high_24h"`
	Low24h                       float64   `json:"low_24h"`
	PriceChange24h               float64   `json:"price_change_24h"`
	PriceChangePercentage1h      *float64  `json:"price_change_percentage_1h_in_currency"`
	PriceChangePercentage24h     *float64  `json:"price_change_percentage_24h_in_currency"`
	PriceChangePercentage7d      *float64  `json:"price_change_percentage_7d_in_currency"`
	CirculatingSupply            float64   `json:"circulating_supply"`
	TotalSupply                  *float64  `json:"total_supply"`
	ATH                          float64   `json:"ath"`
	ATHChangePercentage          float64   `json:"ath_change_percentage"`
	Sparkline                    *Sparkline `json:"sparkline_in_7d,omitempty"`
}

type Sparkline struct {
	Price []float64 `json:"price"`
}

// GlobalStats is the "data" object of /global.
type GlobalStats struct {
	ActiveCryptocurrencies       int                `json:"active_cryptocurrencies"`
	Markets                      int                `json:"markets"`
	TotalMarketCap               map[string]float64 `json:"total_market_cap"`
	TotalVolume                  map[string]float64 `json:"total_volume"`
	MarketCapPercentage          map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePercentage24h float64            `json:"market_cap_change_percentage_24h_usd"`
	UpdatedAt                    int64              `json:"updated_at"`
}

type globalEnvelope struct {
	Data GlobalStats `json:"data"`
}

// TrendingResult is the /search/trending response.
type TrendingResult struct {
	Coins []TrendingCoin `json:"coins"`
}

type TrendingCoin struct {
	Item TrendingItem `json:"item"`
}

type TrendingItem struct {
	ID            string  `json:"id"`
	CoinID        int     `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	Small         string  `json:"small"`
	Large         string  `json:"large"`
	PriceBTC      float64 `json:"price_btc"`
	Score         int     `json:"score"`
}

// CoinDetail is the subset of /coins/{id} the API serves to clients.
type CoinDetail struct {
	ID          string            `json:"id"`
	Symbol      string            `json:"symbol"`
	Name        string            `json:"name"`
	Description map[string]string `json:"description"`
	Image       CoinImage         `json:"image"`
	MarketData  CoinMarketData    `json:"market_data"`
	Links       CoinLinks         `json:"links"`
}

type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

type CoinMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	High24h                  map[string]float64 `json:"high_24h"`
	Low24h                   map[string]float64 `json:"low_24h"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64            `json:"price_change_percentage_7d"`
	PriceChangePercentage30d float64            `json:"price_change_percentage_30d"`
	CirculatingSupply        float64            `json:"circulating_supply"`
	TotalSupply              *float64           `json:"total_supply"`
	ATH                      map[string]float64 `json:"ath"`
}

type CoinLinks struct {
	Homepage []string `json:"homepage"`
}

// MarketChart is the /coins/{id}/market_chart response. Each point is
// a [timestamp_ms, value] pair.
type MarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// SearchResult is the /search response.
type SearchResult struct {
	Coins []SearchCoin `json:"coins"`
}

type SearchCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
	Large         string `json:"large"`
}

// CoinListEntry is one row of /coins/list.
type CoinListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
