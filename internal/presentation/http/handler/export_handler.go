package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corrispettivi/registro-api/internal/application/service"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/request"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
)

// ExportHandler handles CSV export requests
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportCSV streams the register as a semicolon-separated CSV download
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	var req request.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Both from and to dates are required (YYYY-MM-DD)")
		return
	}

	from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.ParseInLocation("2006-01-02", req.To, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		response.BadRequest(c, "The to date must not precede the from date")
		return
	}

	data, err := h.exportService.ExportCSV(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+h.exportService.Filename(from, to)+`"`)
	c.Data(200, "text/csv; charset=utf-8", data)
}
