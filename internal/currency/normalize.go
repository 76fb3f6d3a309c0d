package currency

import (
	"fmt"
	"itinsort/internal/domain"
)

// Normalize prices every itinerary in the snapshot base. It fails on the
// first itinerary whose currency has no rate; no partial result is returned.
func Normalize(items []domain.Itinerary, snap domain.ExchangeRateSnapshot) ([]domain.PricedItinerary, error) {
	priced := make([]domain.PricedItinerary, 0, len(items))
	for _, it := range items {
		amount, err := snap.Convert(it.Price)
		if err != nil {
			return nil, fmt.Errorf("itinerary %q: %w", it.ID, err)
		}
		priced = append(priced, domain.PricedItinerary{Itinerary: it, Normalized: amount})
	}
	return priced, nil
}
