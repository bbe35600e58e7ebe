package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corrispettivi/registro-api/internal/application/service"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles register dashboard requests
type DashboardHandler struct {
	statsService *service.StatsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(statsService *service.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

// GetStats returns today's totals, the month total and recent receipts
func (h *DashboardHandler) GetStats(c *gin.Context) {
	dashboard, err := h.statsService.GetDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard retrieved successfully", dashboard)
}

// GetDailyTotals returns totals and the VAT breakdown for one calendar day
func (h *DashboardHandler) GetDailyTotals(c *gin.Context) {
	day := time.Now()
	if dayStr := c.Query("day"); dayStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dayStr, time.Local)
		if err != nil {
			response.BadRequest(c, "Invalid day, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	totals, err := h.statsService.DailyTotals(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Daily totals retrieved successfully", totals)
}
