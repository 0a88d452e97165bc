package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/portfolio"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/trading"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/valuation"
	"github.com/coinfolio/coinfolio_service/pkg/pagination"
)

// PortfolioHandlers serves portfolio, holding and trade endpoints
type PortfolioHandlers struct {
	portfolios *portfolio.Service
	trading    *trading.Service
	valuation  *valuation.Service
	logger     *zap.Logger
}

func NewPortfolioHandlers(portfolios *portfolio.Service, tradingService *trading.Service, valuationService *valuation.Service, logger *zap.Logger) *PortfolioHandlers {
	return &PortfolioHandlers{
		portfolios: portfolios,
		trading:    tradingService,
		valuation:  valuationService,
		logger:     logger,
	}
}

// Create adds a new portfolio
func (h *PortfolioHandlers) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req entities.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	created, err := h.portfolios.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondCreated(c, created)
}

// List returns the caller's portfolios
func (h *PortfolioHandlers) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	portfolios, err := h.portfolios.List(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, portfolios)
}

// Get returns one portfolio
func (h *PortfolioHandlers) Get(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.portfolios.Get(c.Request.Context(), userID, portfolioID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, found)
}

// Update renames a portfolio
func (h *PortfolioHandlers) Update(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req entities.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	updated, err := h.portfolios.Update(c.Request.Context(), userID, portfolioID, req.Name, req.Description)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, updated)
}

// Delete removes a portfolio and everything in it
func (h *PortfolioHandlers) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.portfolios.Delete(c.Request.Context(), userID, portfolioID); err != nil {
		respondAppError(c, err)
		return
	}

	respondMessage(c, "portfolio deleted")
}

// Metrics returns the live-price valuation snapshot for a portfolio
func (h *PortfolioHandlers) Metrics(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.portfolios.Get(c.Request.Context(), userID, portfolioID); err != nil {
		respondAppError(c, err)
		return
	}

	metrics, err := h.valuation.ComputeMetrics(c.Request.Context(), portfolioID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, metrics)
}

// Overview returns a portfolio together with its valuation snapshot
func (h *PortfolioHandlers) Overview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.portfolios.Get(c.Request.Context(), userID, portfolioID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	metrics, err := h.valuation.ComputeMetrics(c.Request.Context(), portfolioID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, entities.PortfolioOverview{Portfolio: found, Metrics: metrics})
}

// Summary aggregates value across all the caller's portfolios
func (h *PortfolioHandlers) Summary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	portfolios, err := h.portfolios.List(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(portfolios))
	for _, p := range portfolios {
		ids = append(ids, p.ID)
	}

	summary, err := h.valuation.ComputeSummary(c.Request.Context(), ids)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, summary)
}

// ListHoldings returns the lots in a portfolio
func (h *PortfolioHandlers) ListHoldings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	holdings, err := h.portfolios.ListHoldings(c.Request.Context(), userID, portfolioID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, holdings)
}

// AddHolding records a purchase lot and its buy transaction
func (h *PortfolioHandlers) AddHolding(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req entities.AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	if _, err := h.portfolios.Get(c.Request.Context(), userID, portfolioID); err != nil {
		respondAppError(c, err)
		return
	}

	buyDate := time.Now().UTC()
	if req.BuyDate != nil {
		buyDate = *req.BuyDate
	}

	holding, err := h.trading.Buy(c.Request.Context(), trading.BuyParams{
		PortfolioID: portfolioID,
		CoinID:      req.CoinID,
		Symbol:      req.Symbol,
		Name:        req.Name,
		Quantity:    req.Quantity,
		BuyPrice:    req.BuyPrice,
		BuyDate:     buyDate,
		Notes:       req.Notes,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondCreated(c, holding)
}

// UpdateHolding edits a lot
func (h *PortfolioHandlers) UpdateHolding(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	holdingID, ok := parseUUIDParam(c, "holdingId")
	if !ok {
		return
	}

	var req entities.UpdateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	holding, err := h.portfolios.UpdateHolding(c.Request.Context(), userID, portfolioID, holdingID, portfolio.HoldingUpdate{
		Quantity: req.Quantity,
		BuyPrice: req.BuyPrice,
		BuyDate:  req.BuyDate,
		Notes:    req.Notes,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, holding)
}

// DeleteHolding removes a lot without recording a disposal
func (h *PortfolioHandlers) DeleteHolding(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	holdingID, ok := parseUUIDParam(c, "holdingId")
	if !ok {
		return
	}

	if err := h.portfolios.DeleteHolding(c.Request.Context(), userID, portfolioID, holdingID); err != nil {
		respondAppError(c, err)
		return
	}

	respondMessage(c, "holding deleted")
}

// SellHolding disposes part or all of a lot and records the realized
// profit or loss
func (h *PortfolioHandlers) SellHolding(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	holdingID, ok := parseUUIDParam(c, "holdingId")
	if !ok {
		return
	}

	var req entities.SellHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	if _, err := h.portfolios.Get(c.Request.Context(), userID, portfolioID); err != nil {
		respondAppError(c, err)
		return
	}

	result, err := h.trading.Sell(c.Request.Context(), portfolioID, holdingID, req.Quantity, req.Price)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, result)
}

// History returns the portfolio's paginated transaction ledger
func (h *PortfolioHandlers) History(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	params := pagination.Params{}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		params.PageSize = pageSize
	}

	history, pageInfo, err := h.portfolios.History(c.Request.Context(), userID, portfolioID, params)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, gin.H{
		"transactions": history.Transactions,
		"summary":      history.Summary,
		"pagination":   pageInfo,
	})
}
