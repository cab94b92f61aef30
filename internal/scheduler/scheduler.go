package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/ping-monitor/internal/metrics"
	"github.com/angeloszaimis/ping-monitor/internal/registry"
	"github.com/angeloszaimis/ping-monitor/internal/status"
	"github.com/angeloszaimis/ping-monitor/internal/sweep"
)

// DefaultInterval is the period between scheduled sweep starts.
const DefaultInterval = 30 * time.Second

// Scheduler re-triggers the fan-out executor in the background. On-demand
// sweeps from the API run concurrently through the same cache; whichever
// commit lands last wins.
type Scheduler struct {
	executor  *sweep.Executor
	registry  *registry.Registry
	cache     *status.Cache
	collector *metrics.Collector
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a scheduler. Intervals of zero or below fall back to
// DefaultInterval.
func New(
	executor *sweep.Executor,
	reg *registry.Registry,
	cache *status.Cache,
	collector *metrics.Collector,
	interval time.Duration,
	logger *slog.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		executor:  executor,
		registry:  reg,
		cache:     cache,
		collector: collector,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks until ctx is done, sweeping the full registry once at startup
// and then on every tick.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Background monitoring started",
		slog.Duration("interval", s.interval))

	s.sweepAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Background monitoring stopped")
			return
		case <-ticker.C:
			// A tick can race shutdown; stop promptly instead of
			// starting one more sweep.
			if ctx.Err() != nil {
				s.logger.Info("Background monitoring stopped")
				return
			}
			s.sweepAll(ctx)
		}
	}
}

func (s *Scheduler) sweepAll(ctx context.Context) {
	hosts := s.registry.Current()
	start := time.Now()

	snapshot, err := s.executor.Sweep(ctx, hosts)
	if err != nil {
		// Probe subsystem unavailable. Keep the stale cache and retry on
		// the next tick.
		s.logger.Error("scheduled sweep failed",
			slog.String("error", err.Error()))
		s.collector.Emit(metrics.Event{
			Type:      metrics.EventSweepFailed,
			Timestamp: time.Now(),
			Scheduled: true,
		})
		return
	}

	s.cache.Replace(snapshot)

	elapsed := time.Since(start)
	s.collector.Emit(metrics.Event{
		Type:      metrics.EventSweepCompleted,
		Timestamp: time.Now(),
		Scheduled: true,
		Duration:  elapsed,
		Counts:    metrics.CountsOf(snapshot),
	})

	s.logger.Info("scheduled sweep completed",
		slog.Int("hosts", len(hosts)),
		slog.Duration("elapsed", elapsed))
}
