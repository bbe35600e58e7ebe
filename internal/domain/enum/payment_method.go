package enum

// PaymentMethod represents how a receipt was paid
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentOther PaymentMethod = "other"
)

// paymentAliases maps the Italian labels used by the register UI and by
// historical records onto the canonical methods. Bancomat is a debit card.
var paymentAliases = map[string]PaymentMethod{
	"cash":     PaymentCash,
	"card":     PaymentCard,
	"other":    PaymentOther,
	"contanti": PaymentCash,
	"carta":    PaymentCard,
	"bancomat": PaymentCard,
	"altro":    PaymentOther,
}

// ParsePaymentMethod normalizes a payment method label, defaulting to cash
// for unknown values.
func ParsePaymentMethod(s string) PaymentMethod {
	if m, ok := paymentAliases[s]; ok {
		return m
	}
	return PaymentCash
}

// IsValid returns true if the method is one of the canonical values
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentOther
}

// String returns the string representation of the payment method
func (m PaymentMethod) String() string {
	return string(m)
}
