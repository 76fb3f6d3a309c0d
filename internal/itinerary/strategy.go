package itinerary

import (
	"cmp"
	"fmt"
	"itinsort/internal/domain"
	"slices"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindFastest  Kind = "fastest"
	KindCheapest Kind = "cheapest"
	KindBest     Kind = "best"
)

// Strategy orders itineraries that were already priced in one currency.
// Implementations must be stable and must not modify their input.
type Strategy interface {
	Kind() Kind
	// NeedsRates reports whether Sort reads normalized prices. When false the
	// items are passed with a zero Normalized value.
	NeedsRates() bool
	Sort(items []domain.PricedItinerary) []domain.Itinerary
}

// NewStrategy returns the strategy for kind.
func NewStrategy(kind Kind) (Strategy, error) {
	switch kind {
	case KindFastest:
		return Fastest{}, nil
	case KindCheapest:
		return Cheapest{}, nil
	case KindBest:
		return Best{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, string(kind))
	}
}

// Fastest orders by duration, shortest first.
type Fastest struct{}

func (Fastest) Kind() Kind { return KindFastest }

func (Fastest) NeedsRates() bool { return false }

func (Fastest) Sort(items []domain.PricedItinerary) []domain.Itinerary {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b domain.PricedItinerary) int {
		return cmp.Compare(a.Itinerary.DurationMinutes, b.Itinerary.DurationMinutes)
	})
	return domain.Unwrap(sorted)
}

// Cheapest orders by normalized price, lowest first.
type Cheapest struct{}

func (Cheapest) Kind() Kind { return KindCheapest }

func (Cheapest) NeedsRates() bool { return true }

func (Cheapest) Sort(items []domain.PricedItinerary) []domain.Itinerary {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b domain.PricedItinerary) int {
		return a.Normalized.Cmp(b.Normalized)
	})
	return domain.Unwrap(sorted)
}

// Best orders by an equally weighted sum of min-max scaled price and
// duration, both taken over the batch. Lower is better; a dimension where
// every itinerary has the same value contributes zero.
type Best struct{}

var bestWeight = decimal.NewFromFloat(0.5)

func (Best) Kind() Kind { return KindBest }

func (Best) NeedsRates() bool { return true }

func (Best) Sort(items []domain.PricedItinerary) []domain.Itinerary {
	if len(items) == 0 {
		return []domain.Itinerary{}
	}

	prices := make([]decimal.Decimal, len(items))
	durations := make([]decimal.Decimal, len(items))
	for i, it := range items {
		prices[i] = it.Normalized
		durations[i] = decimal.NewFromInt(int64(it.Itinerary.DurationMinutes))
	}
	priceScale := newMinMax(prices)
	durationScale := newMinMax(durations)

	type scored struct {
		item  domain.PricedItinerary
		score decimal.Decimal
	}
	ranked := make([]scored, len(items))
	for i, it := range items {
		score := bestWeight.Mul(priceScale.scale(prices[i])).
			Add(bestWeight.Mul(durationScale.scale(durations[i])))
		ranked[i] = scored{item: it, score: score}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int { return a.score.Cmp(b.score) })

	out := make([]domain.Itinerary, len(ranked))
	for i, r := range ranked {
		out[i] = r.item.Itinerary
	}
	return out
}

type minMax struct {
	min, span decimal.Decimal
}

func newMinMax(values []decimal.Decimal) minMax {
	lo, hi := decimal.Min(values[0], values...), decimal.Max(values[0], values...)
	return minMax{min: lo, span: hi.Sub(lo)}
}

// scale maps v into [0, 1].
func (m minMax) scale(v decimal.Decimal) decimal.Decimal {
	if m.span.IsZero() {
		return decimal.Zero
	}
	return v.Sub(m.min).DivRound(m.span, domain.ConversionPrecision)
}
