package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/adapters/coingecko"
)

// MarketHandlers serves public market-data endpoints backed by the
// cached price feed
type MarketHandlers struct {
	market *coingecko.Source
	logger *zap.Logger
}

func NewMarketHandlers(market *coingecko.Source, logger *zap.Logger) *MarketHandlers {
	return &MarketHandlers{
		market: market,
		logger: logger,
	}
}

// Global returns aggregate market statistics
func (h *MarketHandlers) Global(c *gin.Context) {
	stats, err := h.market.GetGlobal(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, stats)
}

// Listings returns a ranked page of coins with market data
func (h *MarketHandlers) Listings(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "100"))
	if err != nil || perPage < 1 || perPage > 250 {
		perPage = 100
	}
	order := c.DefaultQuery("order", "market_cap_desc")

	coins, err := h.market.GetListings(c.Request.Context(), page, perPage, order)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, coins)
}

// Trending returns the coins trending in the last 24 hours
func (h *MarketHandlers) Trending(c *gin.Context) {
	trending, err := h.market.GetTrending(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, trending)
}

// Coin returns full detail for one coin
func (h *MarketHandlers) Coin(c *gin.Context) {
	coinID := c.Param("id")
	if coinID == "" {
		respondBadRequest(c, "coin id is required")
		return
	}

	detail, err := h.market.GetCoinDetail(c.Request.Context(), coinID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, detail)
}

// CoinHistory returns a coin's price chart over the requested window
func (h *MarketHandlers) CoinHistory(c *gin.Context) {
	coinID := c.Param("id")
	if coinID == "" {
		respondBadRequest(c, "coin id is required")
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 365 {
		days = 7
	}

	chart, err := h.market.GetCoinHistory(c.Request.Context(), coinID, days)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, chart)
}

// Search looks up coins by name or symbol
func (h *MarketHandlers) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		respondBadRequest(c, "query is required")
		return
	}

	result, err := h.market.SearchCoins(c.Request.Context(), query)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, result)
}

// CoinList returns the id/symbol/name index of all supported coins
func (h *MarketHandlers) CoinList(c *gin.Context) {
	list, err := h.market.GetCoinList(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, list)
}

// Prices returns live quotes for the requested coin ids
func (h *MarketHandlers) Prices(c *gin.Context) {
	idsParam := strings.TrimSpace(c.Query("ids"))
	if idsParam == "" {
		respondBadRequest(c, "ids is required")
		return
	}

	ids := strings.Split(idsParam, ",")
	quotes, err := h.market.GetQuotes(c.Request.Context(), ids)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, quotes)
}
