package upstream

// ItemPayload is a receipt line item in the upstream wire format. Monetary
// fields are decimal euros, as the API expects.
type ItemPayload struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	VATRate     int     `json:"vat_rate"`
	Amount      float64 `json:"amount"`
}

// ReceiptPayload is the create-receipt request body.
type ReceiptPayload struct {
	FiscalID      string        `json:"fiscal_id"`
	Items         []ItemPayload `json:"items"`
	PaymentMethod string        `json:"payment_method"`
	TotalAmount   float64       `json:"total_amount"`
	DocumentType  string        `json:"document_type"`
	Date          string        `json:"date"`
}

// RefundPayload is the partial-refund request body.
type RefundPayload struct {
	OriginalReceiptID string        `json:"original_receipt_id"`
	Items             []ItemPayload `json:"items"`
	RefundAmount      float64       `json:"refund_amount"`
}
