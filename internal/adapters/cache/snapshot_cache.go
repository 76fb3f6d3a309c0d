package cache

import (
	"fmt"
	"itinsort/internal/domain"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
)

// RistrettoSnapshotCache keeps the latest snapshot per base currency.
// Freshness is judged by the caller from FetchedAt, so expired entries stay
// readable for stale fallback until evicted.
type RistrettoSnapshotCache struct {
	cache *ristretto.Cache
}

func NewSnapshotCache(maxBases int64) (*RistrettoSnapshotCache, error) {
	if maxBases <= 0 {
		maxBases = 1
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		// Every snapshot costs 1, so MaxCost is the number of bases kept.
		NumCounters:        10 * maxBases,
		MaxCost:            maxBases,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create snapshot cache failed: %w", err)
	}
	return &RistrettoSnapshotCache{cache: c}, nil
}

func (c *RistrettoSnapshotCache) Get(base string) (domain.ExchangeRateSnapshot, bool) {
	if v, ok := c.cache.Get(toKey(base)); ok {
		snap, ok := v.(domain.ExchangeRateSnapshot)
		return snap, ok
	}
	return domain.ExchangeRateSnapshot{}, false
}

// Set blocks until the write is applied so a following Get observes it.
func (c *RistrettoSnapshotCache) Set(snapshot domain.ExchangeRateSnapshot) {
	if !c.cache.Set(toKey(snapshot.Base), snapshot, 1) {
		logrus.WithField("base", snapshot.Base).Warn("Rate snapshot was not admitted to cache")
		return
	}
	c.cache.Wait()
}

func (c *RistrettoSnapshotCache) Close() { c.cache.Close() }

func toKey(base string) string { return "rates:" + strings.ToUpper(base) }
