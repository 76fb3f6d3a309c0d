package itinerary

import (
	"context"
	"fmt"
	"itinsort/internal/currency"
	"itinsort/internal/domain"
	"time"

	"github.com/google/uuid"
)

type RateProvider interface {
	GetRates(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error)
}

type SortResult struct {
	SortingType    string
	Itineraries    []domain.Itinerary
	TargetCurrency string
	// Zero when the batch was empty or the strategy needs no rates.
	SnapshotID     uuid.UUID
	RatesFetchedAt time.Time
}

// Service resolves a strategy, prices the batch in the target currency and
// sorts it.
type Service struct {
	registry       *Registry
	rates          RateProvider
	targetCurrency string
}

func NewService(registry *Registry, rates RateProvider, targetCurrency string) *Service {
	return &Service{registry: registry, rates: rates, targetCurrency: domain.NormalizeCode(targetCurrency)}
}

func (s *Service) Sort(ctx context.Context, sortingType string, items []domain.Itinerary) (SortResult, error) {
	strategy, err := s.registry.Resolve(sortingType)
	if err != nil {
		return SortResult{}, err
	}

	result := SortResult{SortingType: sortingType, TargetCurrency: s.targetCurrency}
	if len(items) == 0 {
		result.Itineraries = []domain.Itinerary{}
		return result, nil
	}

	if !strategy.NeedsRates() {
		result.Itineraries = strategy.Sort(unpriced(items))
		return result, nil
	}

	snap, err := s.rates.GetRates(ctx, s.targetCurrency)
	if err != nil {
		return SortResult{}, fmt.Errorf("failed to get %s rates: %w", s.targetCurrency, err)
	}

	priced, err := currency.Normalize(items, snap)
	if err != nil {
		return SortResult{}, err
	}

	result.Itineraries = strategy.Sort(priced)
	result.SnapshotID = snap.ID
	result.RatesFetchedAt = snap.FetchedAt
	return result, nil
}

func unpriced(items []domain.Itinerary) []domain.PricedItinerary {
	out := make([]domain.PricedItinerary, len(items))
	for i, it := range items {
		out[i] = domain.PricedItinerary{Itinerary: it}
	}
	return out
}

func (s *Service) Names() []string {
	return s.registry.Names()
}

func (s *Service) TargetCurrency() string { return s.targetCurrency }
