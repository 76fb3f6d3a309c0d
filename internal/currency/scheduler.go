package currency

import (
	"context"
	"itinsort/internal/domain"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRefreshInterval = 10 * time.Minute
	maxParallelRefreshes   = 4
)

type Refresher interface {
	Refresh(ctx context.Context, base string) (domain.ExchangeRateSnapshot, error)
}

// Scheduler periodically refreshes the configured warm bases so requests
// rarely hit an expired cache entry.
type Scheduler struct {
	refresher Refresher
	bases     []string
	interval  time.Duration

	mu    sync.Mutex
	sched gocron.Scheduler
}

func NewScheduler(refresher Refresher, bases []string, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Scheduler{refresher: refresher, bases: bases, interval: interval}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.bases) == 0 {
		logrus.Info("No warm bases configured, rate refresh scheduler is idle")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		refreshed := RefreshBases(jobCtx, execID, s.refresher, s.bases)
		logrus.Infof("%d/%d warm bases refreshed; execID: %s", refreshed, len(s.bases), execID)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

// RefreshBases refreshes every base concurrently and returns how many succeeded.
// A failing base is logged and retried on the next run.
func RefreshBases(ctx context.Context, execID string, refresher Refresher, bases []string) int {
	var (
		mu        sync.Mutex
		refreshed int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRefreshes)
	for _, base := range bases {
		g.Go(func() error {
			snap, err := refresher.Refresh(ctx, base)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{"base": base, "exec_id": execID}).Warn("Warm base refresh failed")
				return nil
			}
			logrus.WithFields(logrus.Fields{"base": base, "exec_id": execID, "snapshot_id": snap.ID}).Debug("Warm base refreshed")
			mu.Lock()
			refreshed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return refreshed
}
