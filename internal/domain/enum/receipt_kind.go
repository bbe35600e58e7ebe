package enum

// ReceiptKind distinguishes a sale receipt from the companion record a
// partial refund creates.
type ReceiptKind string

const (
	KindSale   ReceiptKind = "sale"
	KindRefund ReceiptKind = "refund"
)

// String returns the string representation of the kind
func (k ReceiptKind) String() string {
	return string(k)
}
