package currency

import (
	"context"
	"errors"
	"fmt"
	"itinsort/internal/adapters"
	"itinsort/internal/domain"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL          = time.Hour
	defaultFetchTimeout = 5 * time.Second
)

// Provider hands out exchange-rate snapshots per base currency. Fresh cache
// hits return directly; misses are collapsed per base into a single fetch.
type Provider struct {
	client adapters.RateClient
	cache  adapters.SnapshotCache
	// repo is optional; nil disables the durable tier.
	repo adapters.SnapshotRepository

	ttl          time.Duration
	fetchTimeout time.Duration

	group singleflight.Group
	now   func() time.Time
}

func NewProvider(client adapters.RateClient, cache adapters.SnapshotCache, repo adapters.SnapshotRepository, ttl, fetchTimeout time.Duration) *Provider {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Provider{
		client:       client,
		cache:        cache,
		repo:         repo,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// GetRates returns a snapshot for base that is younger than the TTL, or a
// stale one when the upstream fetch fails.
func (p *Provider) GetRates(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error) {
	base = domain.NormalizeCode(base)
	if snap, ok := p.cache.Get(base); ok && snap.IsFresh(p.now(), p.ttl) {
		return snap, nil
	}
	return p.load(ctx, base, false)
}

// Refresh fetches base from upstream regardless of what is cached. Unlike
// GetRates it never serves stale rates: a failed fetch is an error.
func (p *Provider) Refresh(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error) {
	return p.load(ctx, domain.NormalizeCode(base), true)
}

func (p *Provider) load(ctx context.Context, base string, force bool) (domain.ExchangeRateSnapshot, error) {
	// The flight outlives any single caller, so it never sees their cancellation.
	flightCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(base, func() (any, error) {
		return p.resolve(flightCtx, base, force)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.ExchangeRateSnapshot{}, res.Err
		}
		return res.Val.(domain.ExchangeRateSnapshot), nil
	case <-ctx.Done():
		return domain.ExchangeRateSnapshot{}, ctx.Err()
	}
}

func (p *Provider) resolve(ctx context.Context, base string, force bool) (domain.ExchangeRateSnapshot, error) {
	if !force {
		if snap, ok := p.cache.Get(base); ok && snap.IsFresh(p.now(), p.ttl) {
			return snap, nil
		}
		if snap, ok := p.fromRepository(ctx, base); ok && snap.IsFresh(p.now(), p.ttl) {
			p.cache.Set(snap)
			return snap, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	start := time.Now()
	rates, err := p.client.GetExchangeRates(fetchCtx, base)
	log := logrus.WithFields(logrus.Fields{"base": base, "took": time.Since(start).String()})
	if err != nil {
		log.WithError(err).Error("Rate fetch failed")
		if force {
			return domain.ExchangeRateSnapshot{}, fmt.Errorf("%w for base %s: %w", domain.ErrRateFetchFailed, base, err)
		}
		return p.fallback(ctx, base, err)
	}

	snap := domain.NewSnapshot(base, rates, p.now())
	p.cache.Set(snap)
	log.WithFields(logrus.Fields{"snapshot_id": snap.ID, "rates": len(snap.Rates)}).Info("Rates fetched")

	if p.repo != nil {
		saveCtx, saveCancel := context.WithTimeout(ctx, p.fetchTimeout)
		defer saveCancel()
		if saveErr := p.repo.Save(saveCtx, snap); saveErr != nil {
			logrus.WithError(saveErr).WithField("base", base).Warn("Failed to persist rate snapshot")
		}
	}
	return snap, nil
}

// fallback serves the newest stale snapshot it can find after a failed fetch.
func (p *Provider) fallback(ctx context.Context, base string, fetchErr error) (domain.ExchangeRateSnapshot, error) {
	snap, ok := p.cache.Get(base)
	if !ok {
		if snap, ok = p.fromRepository(ctx, base); ok {
			p.cache.Set(snap)
		}
	}
	if !ok {
		return domain.ExchangeRateSnapshot{}, fmt.Errorf("%w for base %s: %w", domain.ErrRateFetchFailed, base, fetchErr)
	}

	logrus.WithError(fetchErr).WithFields(logrus.Fields{
		"base":        base,
		"snapshot_id": snap.ID,
		"age":         snap.Age(p.now()).Round(time.Second).String(),
	}).Warn("Serving stale rates")
	return snap, nil
}

func (p *Provider) fromRepository(ctx context.Context, base string) (domain.ExchangeRateSnapshot, bool) {
	if p.repo == nil {
		return domain.ExchangeRateSnapshot{}, false
	}
	readCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	snap, err := p.repo.GetByBase(readCtx, base)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			logrus.WithError(err).WithField("base", base).Warn("Failed to read rate snapshot")
		}
		return domain.ExchangeRateSnapshot{}, false
	}
	return snap, true
}
