package shared

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale used when storing monetary amounts
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount half away from zero to two decimal places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// Percentage returns value*rate/100 rounded to money precision
func Percentage(value, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(value.Mul(rate).Div(hundred))
}

// PercentChange returns (current-previous)/previous*100 rounded to two places.
// ok is false when previous is zero and the change is undefined.
func PercentChange(previous, current decimal.Decimal) (decimal.Decimal, bool) {
	if previous.IsZero() {
		return decimal.Zero, false
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2), true
}

// FormatBusinessNumber renders numbers such as INV-2024-00007
func FormatBusinessNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}

// DecimalParam parses an optional numeric query parameter. Empty input yields
// nil; malformed input is a validation error on name.
func DecimalParam(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, NewValidationError(name, "Must be a number")
	}
	return &d, nil
}

// SetDecimal parses raw with DecimalParam and sets it under key. A malformed
// value is collected on errs instead.
func (f *Filter) SetDecimal(errs *ValidationError, key, raw string) {
	d, err := DecimalParam(key, raw)
	var ve *ValidationError
	if errors.As(err, &ve) {
		errs.Fields = append(errs.Fields, ve.Fields...)
		return
	}
	f.Set(key, d)
}
