package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in an ISO-4217 currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney upper-cases the currency code and rejects negative amounts or
// codes that are not three ASCII letters.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code := NormalizeCode(currency)
	if !IsCurrencyCode(code) {
		return Money{}, fmt.Errorf("%w: currency code %q must be 3 letters", ErrInvalidMoney, currency)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: amount %s is negative", ErrInvalidMoney, amount)
	}
	return Money{Amount: amount, Currency: code}, nil
}

func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsCurrencyCode reports whether code looks like an upper-case ISO-4217 code.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
