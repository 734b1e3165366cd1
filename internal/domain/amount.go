package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric fiscal field kept exactly as it appeared in the XML.
// The raw text is what gets serialized; Decimal and Float64 coerce on demand.
type Amount string

// Decimal returns the numeric value, or zero when the text is empty or not a number.
func (a Amount) Decimal() decimal.Decimal {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Float64 returns the numeric value as a float.
func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

// IsZero reports whether the amount is empty or numerically zero.
func (a Amount) IsZero() bool {
	return a.Decimal().IsZero()
}

func (a Amount) String() string { return string(a) }

// SumAmounts adds amounts without going through float64.
func SumAmounts(values ...Amount) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.Decimal())
	}
	return total
}
