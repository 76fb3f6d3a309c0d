package itinerary

import (
	"errors"
	"fmt"
	"itinsort/internal/domain"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidItinerary = errors.New("invalid itinerary")

// ValidationError points at the offending request field. Index is -1 for
// request-level fields.
type ValidationError struct {
	Index   int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("itineraries[%d].%s: %s", e.Index, e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidItinerary }

// Input is an itinerary as received from a client, before validation.
// A nil DurationMinutes or an invalid Amount means the value was absent.
type Input struct {
	ID              string
	DurationMinutes *int
	Amount          decimal.NullDecimal
	Currency        string
}

type Validator struct {
	maxItineraries int
}

func NewValidator(maxItineraries int) *Validator {
	return &Validator{maxItineraries: maxItineraries}
}

// Validate checks the request and returns the itineraries in domain form,
// in input order. A nil inputs slice means the field was absent; an empty
// one is a valid, empty batch.
func (v *Validator) Validate(sortingType string, inputs []Input) ([]domain.Itinerary, error) {
	if strings.TrimSpace(sortingType) == "" {
		return nil, &ValidationError{Index: -1, Field: "sorting_type", Message: "is required"}
	}
	if inputs == nil {
		return nil, &ValidationError{Index: -1, Field: "itineraries", Message: "is required"}
	}
	if v.maxItineraries > 0 && len(inputs) > v.maxItineraries {
		return nil, &ValidationError{
			Index:   -1,
			Field:   "itineraries",
			Message: fmt.Sprintf("at most %d itineraries are allowed, got %d", v.maxItineraries, len(inputs)),
		}
	}

	items := make([]domain.Itinerary, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.ID) == "" {
			return nil, &ValidationError{Index: i, Field: "id", Message: "is required"}
		}
		if in.DurationMinutes == nil {
			return nil, &ValidationError{Index: i, Field: "duration_minutes", Message: "is required"}
		}
		if *in.DurationMinutes < 0 {
			return nil, &ValidationError{Index: i, Field: "duration_minutes", Message: "must not be negative"}
		}
		if !in.Amount.Valid {
			return nil, &ValidationError{Index: i, Field: "price.amount", Message: "is required"}
		}
		if in.Amount.Decimal.IsNegative() {
			return nil, &ValidationError{Index: i, Field: "price.amount", Message: "must not be negative"}
		}
		price, err := domain.NewMoney(in.Amount.Decimal, in.Currency)
		if err != nil {
			return nil, &ValidationError{Index: i, Field: "price.currency", Message: "must be a 3-letter currency code"}
		}
		items = append(items, domain.Itinerary{ID: in.ID, DurationMinutes: *in.DurationMinutes, Price: price})
	}
	return items, nil
}
