package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coinfolio/coinfolio_service/pkg/health"
	"github.com/coinfolio/coinfolio_service/pkg/version"
)

// HealthHandlers serves liveness and readiness endpoints
type HealthHandlers struct {
	checker *health.HealthChecker
}

func NewHealthHandlers(checker *health.HealthChecker) *HealthHandlers {
	return &HealthHandlers{checker: checker}
}

// HealthResponse is the aggregate health payload
type HealthResponse struct {
	Status    health.Status                 `json:"status"`
	Timestamp time.Time                     `json:"timestamp"`
	Version   string                        `json:"version"`
	Uptime    string                        `json:"uptime"`
	Checks    map[string]health.CheckResult `json:"checks"`
}

var startTime = time.Now()

// Health runs all registered checks and reports aggregate status
func (h *HealthHandlers) Health(c *gin.Context) {
	status, checks := h.checker.Check(c.Request.Context())

	statusCode := http.StatusOK
	if status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Checks:    checks,
	})
}

// Ready reports whether the service can take traffic
func (h *HealthHandlers) Ready(c *gin.Context) {
	if !h.checker.IsHealthy(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

// Live is a trivial liveness probe
func (h *HealthHandlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alive": true})
}
