package adapters

import (
	"context"
	"itinsort/internal/domain"

	"github.com/shopspring/decimal"
)

type RateClient interface {
	GetExchangeRates(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

type SnapshotCache interface {
	Get(base string) (domain.ExchangeRateSnapshot, bool)
	Set(snapshot domain.ExchangeRateSnapshot)
}

type SnapshotRepository interface {
	GetByBase(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error)
	Save(ctx context.Context, snapshot domain.ExchangeRateSnapshot) error
}
