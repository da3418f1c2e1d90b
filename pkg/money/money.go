// Package money holds currency-tagged decimal amounts.
package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var isoCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 alphabetic code.
type Currency struct {
	code string
}

// NewCurrency validates code and wraps it.
func NewCurrency(code string) (Currency, error) {
	if !isoCode.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: want three uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency is NewCurrency for package-level values; it panics on a bad code.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Currency) Code() string   { return c.code }
func (c Currency) String() string { return c.code }
func (c Currency) IsZero() bool   { return c.code == "" }

// USD is the dashboard default.
var USD = MustCurrency("USD")

// Money is an amount in a currency. Values are immutable.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New returns amount in currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

// Multiply scales m by factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Ratio returns m / other. A zero denominator yields zero rather than an
// error; mismatched currencies are an error.
func (m Money) Ratio(other Money) (decimal.Decimal, error) {
	if m.currency != other.currency {
		return decimal.Zero, fmt.Errorf("currency mismatch: %s / %s", m.currency, other.currency)
	}
	if other.amount.IsZero() {
		return decimal.Zero, nil
	}
	return m.amount.Div(other.amount), nil
}

// Round rounds half away from zero to places decimals.
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// String renders m with two decimals, e.g. "60000.00 USD".
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency.code
}
