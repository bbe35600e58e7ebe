package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/corrispettivi/registro-api/internal/application/service"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
)

// SyncHandler handles remote reconciliation requests
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Sync pulls the remote receipt collection and merges it into the ledger
func (h *SyncHandler) Sync(c *gin.Context) {
	summary, err := h.syncService.Sync(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Synchronization completed", summary)
}
