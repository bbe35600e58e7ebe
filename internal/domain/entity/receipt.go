package entity

import (
	"encoding/json"
	"time"

	"github.com/corrispettivi/registro-api/internal/domain/enum"
	"github.com/corrispettivi/registro-api/pkg/money"
)

// LineItem represents a single article on a receipt. Amounts are VAT
// inclusive: Net and VAT are derived from Gross by scorporo and always
// satisfy Net + VAT == Gross.
type LineItem struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Quantity    int          `json:"quantity"`
	VATRate     enum.VATRate `json:"vat_rate"`
	Gross       money.Cents  `json:"gross"`
	Net         money.Cents  `json:"net"`
	VAT         money.Cents  `json:"vat"`
}

// Receipt is a fiscal receipt (scontrino) in the register. Records are
// append-mostly: once stored they only ever change status, never content.
type Receipt struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	IssuedAt      time.Time          `json:"issued_at"`
	Items         []LineItem         `json:"items"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Total         money.Cents        `json:"total"`
	Status        enum.ReceiptStatus `json:"status"`
	Kind          enum.ReceiptKind   `json:"kind"`

	// OriginalNumber back-references the refunded receipt's display number
	// on refund records. Non-owning: the original record is never touched.
	OriginalNumber string `json:"original_number,omitempty"`

	// RemoteResponse stores the upstream API response (or error detail)
	// verbatim for audit.
	RemoteResponse json.RawMessage `json:"remote_response,omitempty"`
}

// NetTotal sums the net components of all items.
func (r *Receipt) NetTotal() money.Cents {
	var total money.Cents
	for _, it := range r.Items {
		total += it.Net
	}
	return total
}

// VATTotal sums the VAT components of all items.
func (r *Receipt) VATTotal() money.Cents {
	var total money.Cents
	for _, it := range r.Items {
		total += it.VAT
	}
	return total
}

// IsRefund reports whether this is the companion record of a partial refund.
func (r *Receipt) IsRefund() bool {
	return r.Kind == enum.KindRefund
}

// OnDay reports whether the receipt was issued on the given local calendar day.
func (r *Receipt) OnDay(day time.Time) bool {
	y1, m1, d1 := r.IssuedAt.Local().Date()
	y2, m2, d2 := day.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Year returns the local calendar year the receipt belongs to, the scope of
// its sequential number.
func (r *Receipt) Year() int {
	return r.IssuedAt.Local().Year()
}
