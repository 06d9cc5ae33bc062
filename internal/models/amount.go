package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary or pip magnitude. Decoding is lenient: null, empty or
// non-numeric input yields zero instead of an error, matching how journal rows
// entered by hand tend to look.
type Amount struct {
	decimal.Decimal
}

// NewAmount returns an Amount for f.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// ParseAmount parses s, returning zero when s is not a number.
func ParseAmount(s string) Amount {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}
	}
	return Amount{d}
}

// UnmarshalJSON accepts numbers and numeric strings.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		d = decimal.Zero
	}
	a.Decimal = d
	return nil
}
