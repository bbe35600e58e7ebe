package enum

// VATRate represents an Italian VAT rate as a whole percentage
type VATRate int

const (
	// VATExempt covers exempt operations (aliquota zero).
	VATExempt VATRate = 0
	// VATMinimum is the 4% super-reduced rate.
	VATMinimum VATRate = 4
	// VATReduced is the 10% reduced rate.
	VATReduced VATRate = 10
	// VATStandard is the 22% ordinary rate.
	VATStandard VATRate = 22
)

// DefaultVATRate is applied when a remote record carries no rate.
const DefaultVATRate = VATStandard

// Rates lists the supported rates from highest to lowest, the order the
// register displays its VAT summary in.
var Rates = []VATRate{VATStandard, VATReduced, VATMinimum, VATExempt}

// IsValid returns true if the rate is one of the supported rates
func (r VATRate) IsValid() bool {
	switch r {
	case VATExempt, VATMinimum, VATReduced, VATStandard:
		return true
	}
	return false
}

// Percent returns the rate as an integer percentage
func (r VATRate) Percent() int {
	return int(r)
}
