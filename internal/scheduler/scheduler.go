// Package scheduler runs the periodic background jobs: recomputing restock
// suggestions and warning about batches that are about to expire.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/pantrypal/internal/clock"
	"github.com/erazemk/pantrypal/internal/model"
	"github.com/erazemk/pantrypal/internal/restock"
)

const (
	JobRestock = "restock"
	JobExpiry  = "expiry"
)

// NotificationTitle is the title of every expiry notification.
const NotificationTitle = "PantryPal Alert"

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

// Suggester computes restock suggestions; *restock.Engine implements it.
type Suggester interface {
	SuggestRestocks(ctx context.Context, now time.Time) ([]model.Item, error)
}

// ExpirySource lists batches expiring before a given instant.
type ExpirySource interface {
	ExpiringBefore(ctx context.Context, before time.Time) ([]model.Batch, error)
}

// Params are the scheduler's dependencies. Metrics and Notifier are optional.
type Params struct {
	Suggester Suggester
	Board     *restock.Board
	Expiry    ExpirySource
	Notifier  Notifier
	Clock     clock.Clock
	Metrics   *Metrics
	Config    Config
}

type Scheduler struct {
	suggester Suggester
	board     *restock.Board
	expiry    ExpirySource
	notifier  Notifier
	clock     clock.Clock
	metrics   *Metrics
	cfg       Config
	log       *slog.Logger
}

func New(p Params) (*Scheduler, error) {
	if p.Suggester == nil || p.Board == nil || p.Expiry == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	notifier := p.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Scheduler{
		suggester: p.Suggester,
		board:     p.Board,
		expiry:    p.Expiry,
		notifier:  notifier,
		clock:     p.Clock,
		metrics:   p.Metrics,
		cfg:       p.Config.withDefaults(),
		log:       slog.Default().With("component", "scheduler"),
	}, nil
}

// Run executes both jobs once and then on their intervals until ctx is
// cancelled. Job failures are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started",
		"restock_interval", s.cfg.RestockInterval,
		"expiry_interval", s.cfg.ExpiryInterval,
		"expiry_window", s.cfg.ExpiryWindow,
	)

	if err := s.RunOnce(ctx); err != nil {
		s.log.Error("initial run failed", "error", err)
	}

	restockTicker := time.NewTicker(s.cfg.RestockInterval)
	defer restockTicker.Stop()
	expiryTicker := time.NewTicker(s.cfg.ExpiryInterval)
	defer expiryTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-restockTicker.C:
			if err := s.RefreshRestock(ctx); err != nil {
				s.log.Error("job failed", "job", JobRestock, "error", err)
			}
		case <-expiryTicker.C:
			if err := s.CheckExpiry(ctx); err != nil {
				s.log.Error("job failed", "job", JobExpiry, "error", err)
			}
		}
	}
}

// RunOnce runs every job once and joins their errors.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return errors.Join(s.RefreshRestock(ctx), s.CheckExpiry(ctx))
}

// RefreshRestock recomputes suggestions and publishes them to the board.
// On failure the previously published suggestions stay in place.
func (s *Scheduler) RefreshRestock(ctx context.Context) error {
	return s.runJob(ctx, JobRestock, func(ctx context.Context) error {
		now := s.clock.Now()
		items, err := s.suggester.SuggestRestocks(ctx, now)
		if err != nil {
			return err
		}
		s.board.Publish(items, now)
		s.metrics.setSuggestions(len(items))
		s.log.Debug("restock suggestions published", "count", len(items))
		return nil
	})
}

// CheckExpiry notifies about batches expiring within the configured window.
func (s *Scheduler) CheckExpiry(ctx context.Context) error {
	return s.runJob(ctx, JobExpiry, func(ctx context.Context) error {
		batches, err := s.expiry.ExpiringBefore(ctx, s.clock.Now().Add(s.cfg.ExpiryWindow))
		if err != nil {
			return err
		}
		s.metrics.setExpiring(len(batches))
		if len(batches) == 0 {
			return nil
		}
		return s.notifier.Notify(ctx, NotificationTitle, ExpiryMessage(batches))
	})
}

// ExpiryMessage renders the notification text for the expiring batches.
func ExpiryMessage(batches []model.Batch) string {
	if len(batches) == 1 {
		name := "An item"
		if batches[0].Item != nil {
			name = batches[0].Item.Name
		}
		return name + " is expiring soon!"
	}
	return fmt.Sprintf("%d items are expiring soon!", len(batches))
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	s.metrics.incJobRun(name)
	err := fn(ctx)
	s.metrics.observeJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	s.metrics.incJobError(name)
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		s.metrics.incJobTimeout(name)
		s.log.Warn("job timed out", "job", name, "timeout", s.cfg.JobTimeout, "error", err)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
