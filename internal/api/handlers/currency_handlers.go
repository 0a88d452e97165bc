package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/currency"
)

// CurrencyHandlers serves display-currency endpoints
type CurrencyHandlers struct {
	currency *currency.Service
	logger   *zap.Logger
}

func NewCurrencyHandlers(currencyService *currency.Service, logger *zap.Logger) *CurrencyHandlers {
	return &CurrencyHandlers{
		currency: currencyService,
		logger:   logger,
	}
}

// Supported returns the display currencies the service can convert to
func (h *CurrencyHandlers) Supported(c *gin.Context) {
	respondOK(c, h.currency.SupportedCurrencies())
}

// Rates returns USD exchange rates for all supported currencies
func (h *CurrencyHandlers) Rates(c *gin.Context) {
	rates, err := h.currency.ExchangeRates(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, rates)
}

// Convert converts a USD amount into another display currency
func (h *CurrencyHandlers) Convert(c *gin.Context) {
	var req entities.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	code := strings.ToLower(req.Currency)
	if !h.currency.IsSupported(code) {
		respondBadRequest(c, "unsupported currency")
		return
	}

	converted := h.currency.Convert(c.Request.Context(), req.Amount, code)
	respondOK(c, gin.H{
		"amount":    req.Amount,
		"currency":  code,
		"converted": converted,
		"formatted": h.currency.Format(converted, code),
	})
}
