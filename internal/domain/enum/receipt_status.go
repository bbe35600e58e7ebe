package enum

// ReceiptStatus represents the lifecycle state of a receipt
type ReceiptStatus string

const (
	// StatusPending means the receipt is persisted locally but the upstream
	// submission has not completed yet.
	StatusPending ReceiptStatus = "pending"
	// StatusIssued means the upstream fiscal API accepted the receipt.
	StatusIssued ReceiptStatus = "issued"
	// StatusError means the upstream submission failed; the record is kept
	// for inspection and manual follow-up.
	StatusError ReceiptStatus = "error"
	// StatusVoided means an issued receipt was cancelled in full.
	StatusVoided ReceiptStatus = "voided"
)

var validStatuses = map[ReceiptStatus]bool{
	StatusPending: true,
	StatusIssued:  true,
	StatusError:   true,
	StatusVoided:  true,
}

// transitions holds the allowed status moves. Issued receipts stay issued
// when a refund is applied: the refund is a separate record.
var transitions = map[ReceiptStatus][]ReceiptStatus{
	StatusPending: {StatusIssued, StatusError},
	StatusIssued:  {StatusVoided},
}

// IsValid returns true if the status is a known receipt status
func (s ReceiptStatus) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation of the status
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s ReceiptStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo returns true if the move from s to target is allowed
func (s ReceiptStatus) CanTransitionTo(target ReceiptStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}
