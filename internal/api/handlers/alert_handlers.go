package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/alerts"
)

// AlertHandlers serves price alert endpoints
type AlertHandlers struct {
	alerts *alerts.Service
	logger *zap.Logger
}

func NewAlertHandlers(alertService *alerts.Service, logger *zap.Logger) *AlertHandlers {
	return &AlertHandlers{
		alerts: alertService,
		logger: logger,
	}
}

// Create adds a price alert
func (h *AlertHandlers) Create(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req entities.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	alert, err := h.alerts.Create(c.Request.Context(), userID, req.CoinID, req.Symbol, req.Name, req.TargetPrice, req.Condition)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondCreated(c, alert)
}

// List returns the caller's alerts with current prices
func (h *AlertHandlers) List(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	alertList, err := h.alerts.List(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, alertList)
}

// SetActive arms or disarms an alert. Re-arming a triggered alert
// clears its triggered state.
func (h *AlertHandlers) SetActive(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	alertID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req entities.SetAlertActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		respondBadRequest(c, "active is required")
		return
	}

	if err := h.alerts.SetActive(c.Request.Context(), userID, alertID, *req.Active); err != nil {
		respondAppError(c, err)
		return
	}

	respondMessage(c, "alert updated")
}

// Delete removes an alert
func (h *AlertHandlers) Delete(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	alertID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.alerts.Delete(c.Request.Context(), userID, alertID); err != nil {
		respondAppError(c, err)
		return
	}

	respondMessage(c, "alert deleted")
}
