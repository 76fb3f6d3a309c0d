package itinerary

import (
	"testing"
	"time"

	"itinsort/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func itin(t *testing.T, id string, minutes int, amount, currency string) domain.Itinerary {
	t.Helper()
	price, err := domain.NewMoney(decimal.RequireFromString(amount), currency)
	require.NoError(t, err)
	return domain.Itinerary{ID: id, DurationMinutes: minutes, Price: price}
}

func ids(items []domain.Itinerary) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// usdSnapshot prices EUR at 0.8 and CZK at 25 per USD.
func usdSnapshot() domain.ExchangeRateSnapshot {
	return domain.NewSnapshot("USD", map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.8"),
		"CZK": decimal.RequireFromString("25"),
	}, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func identitySnapshot(base string) domain.ExchangeRateSnapshot {
	return domain.NewSnapshot(base, nil, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func permutations(items []domain.Itinerary) [][]domain.Itinerary {
	if len(items) <= 1 {
		return [][]domain.Itinerary{append([]domain.Itinerary(nil), items...)}
	}
	var out [][]domain.Itinerary
	for i := range items {
		rest := make([]domain.Itinerary, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]domain.Itinerary{items[i]}, p...))
		}
	}
	return out
}
