package request

// AddItemRequest represents a draft line item as entered on the register.
// The amount is VAT inclusive, in decimal euros.
type AddItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount" binding:"required"`
	VATRate     int     `json:"vat_rate"`
}

// IssueReceiptRequest represents the issue-receipt action
type IssueReceiptRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// RefundRequest selects the line items of an issued receipt to refund
type RefundRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required"`
}

// ListReceiptsRequest represents receipt list filters
type ListReceiptsRequest struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Status string `form:"status"`
}

// ExportRequest represents a CSV export date range
type ExportRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
