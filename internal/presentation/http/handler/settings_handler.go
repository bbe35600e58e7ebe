package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/corrispettivi/registro-api/internal/application/service"
	"github.com/corrispettivi/registro-api/internal/domain/entity"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/request"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles merchant configuration requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns the stored configuration
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	view, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Settings retrieved successfully", view)
}

// UpdateSettings stores the configuration
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.settingsService.Update(c.Request.Context(), service.UpdateSettingsInput{
		Token:       req.Token,
		Environment: req.Environment,
		Merchant: entity.Merchant{
			PartitaIVA:     req.PartitaIVA,
			CodiceFiscale:  req.CodiceFiscale,
			RagioneSociale: req.RagioneSociale,
			Indirizzo:      req.Indirizzo,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings saved successfully", view)
}

// TestConnection verifies the stored token against the upstream API
func (h *SettingsHandler) TestConnection(c *gin.Context) {
	if err := h.settingsService.TestConnection(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Upstream connection verified", nil)
}
