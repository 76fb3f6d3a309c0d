package currency

import (
	"context"
	"sync"
	"time"

	"itinsort/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockRateClient struct{ mock.Mock }

func (m *MockRateClient) GetExchangeRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base)
	if v := args.Get(0); v != nil {
		return v.(map[string]decimal.Decimal), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSnapshotRepository struct{ mock.Mock }

func (m *MockSnapshotRepository) GetByBase(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error) {
	args := m.Called(ctx, base)
	return args.Get(0).(domain.ExchangeRateSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot domain.ExchangeRateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

type MockRefresher struct{ mock.Mock }

func (m *MockRefresher) Refresh(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error) {
	args := m.Called(ctx, base)
	return args.Get(0).(domain.ExchangeRateSnapshot), args.Error(1)
}

// memCache is a synchronous SnapshotCache for tests.
type memCache struct {
	mu    sync.Mutex
	items map[string]domain.ExchangeRateSnapshot
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string]domain.ExchangeRateSnapshot)}
}

func (c *memCache) Get(base string) (domain.ExchangeRateSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.items[base]
	return s, ok
}

func (c *memCache) Set(s domain.ExchangeRateSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[s.Base] = s
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func usdRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.8"),
		"CZK": decimal.RequireFromString("25"),
	}
}
