package domain

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversionPrecision is the number of decimal places kept when converting
// an amount into the snapshot base.
const ConversionPrecision = 16

// ExchangeRateSnapshot holds rates for one base currency: one unit of Base
// buys Rates[X] units of X. The Base rate itself is implicitly exactly 1.
type ExchangeRateSnapshot struct {
	ID        uuid.UUID
	Base      string
	Rates     map[string]decimal.Decimal
	FetchedAt time.Time
}

// NewSnapshot copies rates, dropping the base entry and non-positive values.
func NewSnapshot(base string, rates map[string]decimal.Decimal, fetchedAt time.Time) ExchangeRateSnapshot {
	base = NormalizeCode(base)
	clean := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		code = NormalizeCode(code)
		if code == base || !rate.IsPositive() {
			continue
		}
		clean[code] = rate
	}
	return ExchangeRateSnapshot{
		ID:        uuid.New(),
		Base:      base,
		Rates:     clean,
		FetchedAt: fetchedAt,
	}
}

// RatesCopy returns a copy of the rates map safe for callers to modify.
func (s ExchangeRateSnapshot) RatesCopy() map[string]decimal.Decimal {
	return maps.Clone(s.Rates)
}

// Age is the time elapsed since the snapshot was fetched.
func (s ExchangeRateSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// IsFresh reports whether the snapshot is younger than ttl.
func (s ExchangeRateSnapshot) IsFresh(now time.Time, ttl time.Duration) bool {
	return s.Age(now) < ttl
}

// Convert returns the amount of m expressed in the snapshot base.
func (s ExchangeRateSnapshot) Convert(m Money) (decimal.Decimal, error) {
	if m.Currency == s.Base {
		return m.Amount, nil
	}
	rate, ok := s.Rates[m.Currency]
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: no %s rate for %s", ErrRateUnavailable, s.Base, m.Currency)
	}
	return m.Amount.DivRound(rate, ConversionPrecision), nil
}
