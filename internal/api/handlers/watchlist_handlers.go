package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/watchlist"
)

// WatchlistHandlers serves the caller's tracked-coins list
type WatchlistHandlers struct {
	watchlist *watchlist.Service
	logger    *zap.Logger
}

func NewWatchlistHandlers(watchlistService *watchlist.Service, logger *zap.Logger) *WatchlistHandlers {
	return &WatchlistHandlers{
		watchlist: watchlistService,
		logger:    logger,
	}
}

// Add tracks a coin
func (h *WatchlistHandlers) Add(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req entities.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	item, err := h.watchlist.Add(c.Request.Context(), userID, req.CoinID, req.Symbol, req.Name)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondCreated(c, item)
}

// List returns the watchlist decorated with live quotes
func (h *WatchlistHandlers) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	entries, err := h.watchlist.List(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, entries)
}

// Remove stops tracking a coin
func (h *WatchlistHandlers) Remove(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	coinID := c.Param("coinId")
	if coinID == "" {
		respondBadRequest(c, "coin id is required")
		return
	}

	if err := h.watchlist.Remove(c.Request.Context(), userID, coinID); err != nil {
		respondAppError(c, err)
		return
	}

	respondMessage(c, "coin removed from watchlist")
}
