package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corrispettivi/registro-api/internal/application/service"
	"github.com/corrispettivi/registro-api/internal/domain/enum"
	"github.com/corrispettivi/registro-api/internal/domain/repository"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/request"
	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
	"github.com/corrispettivi/registro-api/pkg/apperror"
	"github.com/corrispettivi/registro-api/pkg/pagination"
)

// ReceiptHandler handles receipt and draft-related HTTP requests
type ReceiptHandler struct {
	ledgerService *service.LedgerService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(ledgerService *service.LedgerService) *ReceiptHandler {
	return &ReceiptHandler{ledgerService: ledgerService}
}

// GetDraft returns the current draft items and their running totals
func (h *ReceiptHandler) GetDraft(c *gin.Context) {
	items, totals := h.ledgerService.Draft()
	response.OK(c, "Draft retrieved successfully", gin.H{
		"items":  items,
		"totals": totals,
	})
}

// AddItem appends a line item to the current draft
func (h *ReceiptHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.ledgerService.AddDraftItem(service.AddDraftItemInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		GrossAmount: req.Amount,
		VATRate:     req.VATRate,
	})
	if err != nil {
		appErr := apperror.GetAppError(err)
		if len(appErr.Errors) > 0 {
			response.ValidationError(c, appErr.Errors)
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added to draft", item)
}

// RemoveItem removes a line item from the current draft
func (h *ReceiptHandler) RemoveItem(c *gin.Context) {
	h.ledgerService.RemoveDraftItem(c.Param("item_id"))
	response.NoContent(c)
}

// Issue turns the current draft into a receipt and submits it upstream
func (h *ReceiptHandler) Issue(c *gin.Context) {
	var req request.IssueReceiptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	receipt, err := h.ledgerService.Issue(c.Request.Context(), enum.ParsePaymentMethod(req.PaymentMethod))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt recorded", receipt)
}

// List handles listing receipts with optional date and status filters
func (h *ReceiptHandler) List(c *gin.Context) {
	var req request.ListReceiptsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid list filters")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()

	var filter repository.ReceiptFilter
	if req.From != "" {
		if from, err := time.ParseInLocation("2006-01-02", req.From, time.Local); err == nil {
			filter.From = &from
		}
	}
	if req.To != "" {
		if to, err := time.ParseInLocation("2006-01-02", req.To, time.Local); err == nil {
			filter.To = &to
		}
	}
	if req.Status != "" {
		status := enum.ReceiptStatus(req.Status)
		if !status.IsValid() {
			response.BadRequest(c, "Unknown status filter")
			return
		}
		filter.Status = &status
	}

	receipts, err := h.ledgerService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	total := int64(len(receipts))
	start := params.Offset()
	if start > len(receipts) {
		start = len(receipts)
	}
	end := start + params.PerPage
	if end > len(receipts) {
		end = len(receipts)
	}

	result := pagination.NewPaginatedResult(receipts[start:end],
		pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Get returns a single receipt by id
func (h *ReceiptHandler) Get(c *gin.Context) {
	receipt, err := h.ledgerService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// GetByNumber returns a single receipt by its display number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	receipt, err := h.ledgerService.FindByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Refund applies a partial refund against the selected items of a receipt
func (h *ReceiptHandler) Refund(c *gin.Context) {
	var req request.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	refund, err := h.ledgerService.Refund(c.Request.Context(), c.Param("id"), req.ItemIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Refund recorded", refund)
}

// Void cancels an issued receipt in full
func (h *ReceiptHandler) Void(c *gin.Context) {
	receipt, err := h.ledgerService.Void(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt voided", receipt)
}
