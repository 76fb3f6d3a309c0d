package domain

import "github.com/shopspring/decimal"

type Itinerary struct {
	ID              string
	DurationMinutes int
	Price           Money
}

// PricedItinerary pairs an itinerary with its price converted to the target currency.
type PricedItinerary struct {
	Itinerary  Itinerary
	Normalized decimal.Decimal
}

// Unwrap returns the itineraries in the order of items.
func Unwrap(items []PricedItinerary) []Itinerary {
	out := make([]Itinerary, 0, len(items))
	for _, item := range items {
		out = append(out, item.Itinerary)
	}
	return out
}
