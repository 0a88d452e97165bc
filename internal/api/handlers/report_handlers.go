package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/services/reports"
)

// ReportHandlers serves portfolio report exports
type ReportHandlers struct {
	reports *reports.Service
	logger  *zap.Logger
}

func NewReportHandlers(reportService *reports.Service, logger *zap.Logger) *ReportHandlers {
	return &ReportHandlers{
		reports: reportService,
		logger:  logger,
	}
}

// Generate renders a portfolio report as JSON, CSV or HTML depending on
// the format query parameter
func (h *ReportHandlers) Generate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	portfolioID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), userID, portfolioID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	filename := fmt.Sprintf("portfolio-report-%s", time.Now().UTC().Format("2006-01-02"))

	switch c.DefaultQuery("format", "json") {
	case "csv":
		body, err := h.reports.RenderCSV(report)
		if err != nil {
			respondAppError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(200, "text/csv", body)
	case "html":
		body, err := h.reports.RenderHTML(report)
		if err != nil {
			respondAppError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.html", filename))
		c.Data(200, "text/html; charset=utf-8", body)
	case "json":
		respondOK(c, report)
	default:
		respondBadRequest(c, "format must be json, csv or html")
	}
}
