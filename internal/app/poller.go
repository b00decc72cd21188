package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/gantry/internal/state"
)

const defaultRefreshInterval = 5 * time.Second

// Fetcher lists the dashboard data. *Controller satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) (*state.Lists, error)
}

var _ Fetcher = (*Controller)(nil)

// Refresher keeps a state.Store filled at a fixed cadence. Kick requests an
// out-of-band refresh, e.g. after a command changed the controller state.
type Refresher struct {
	store    *state.Store
	fetcher  Fetcher
	interval time.Duration
	logger   *slog.Logger
	kick     chan struct{}
}

// NewRefresher builds a refresher; a non-positive interval uses the default.
func NewRefresher(store *state.Store, fetcher Fetcher, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the background goroutine. It returns immediately; the loop
// ends when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			_ = r.Refresh(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-r.kick:
			}
		}
	}()
}

// Kick schedules a refresh without waiting for the next tick. Kicks that
// arrive while one is pending are merged.
func (r *Refresher) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Refresh fetches once and records the outcome in the store.
func (r *Refresher) Refresh(ctx context.Context) error {
	lists, err := r.fetcher.Fetch(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		r.store.Update(nil, err)
		r.logger.Warn("dashboard refresh failed", "error", err)
		return err
	}
	r.store.Update(lists, nil)
	return nil
}
