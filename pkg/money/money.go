// Package money implements fixed-point currency arithmetic in integer cents.
// Amounts stay integral for every computation; conversion to decimal happens
// only at the JSON/display boundary.
package money

import (
	"encoding/json"
	"fmt"
	"math"
)

// Cents represents a monetary amount in euro cents.
type Cents int64

// FromFloat converts a decimal euro amount to cents, rounding half away from zero.
func FromFloat(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Float64 returns the amount as a decimal euro value.
func (c Cents) Float64() float64 {
	return float64(c) / 100
}

// String formats the amount with two decimal places, e.g. "122.00" or "-10.82".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal number.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a decimal number and rounds it to cents.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = FromFloat(f)
	return nil
}

// NetFromGross splits a VAT-inclusive gross amount into its net and VAT
// components (scorporo): net = gross / (1 + rate/100). The remainder after
// rounding the net part is assigned entirely to VAT, so net + vat == gross
// always holds exactly.
func NetFromGross(gross Cents, ratePercent int) (net, vat Cents) {
	if ratePercent <= 0 {
		return gross, 0
	}
	net = Cents(divRound(int64(gross)*100, int64(100+ratePercent)))
	vat = gross - net
	return net, vat
}

// Sum adds a sequence of amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

// divRound divides rounding half away from zero.
func divRound(num, den int64) int64 {
	if num < 0 {
		return -divRound(-num, den)
	}
	return (num + den/2) / den
}
