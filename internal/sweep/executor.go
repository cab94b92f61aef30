package sweep

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/ping-monitor/internal/prober"
	"github.com/angeloszaimis/ping-monitor/internal/registry"
	"github.com/angeloszaimis/ping-monitor/internal/status"
)

// DefaultCeiling bounds how many probes run simultaneously within one sweep.
const DefaultCeiling = 30

// Executor fans probe work out across a bounded worker pool.
type Executor struct {
	prober      prober.Prober
	ceiling     int
	thresholdMS float64
	logger      *slog.Logger
}

// New creates an executor. ceiling values below one fall back to
// DefaultCeiling.
func New(p prober.Prober, ceiling int, thresholdMS float64, logger *slog.Logger) *Executor {
	if ceiling < 1 {
		ceiling = DefaultCeiling
	}
	return &Executor{
		prober:      p,
		ceiling:     ceiling,
		thresholdMS: thresholdMS,
		logger:      logger,
	}
}

// Sweep probes every host concurrently and returns a snapshot with exactly
// one entry per host. Hosts race freely; no ordering is guaranteed. A fatal
// prober error aborts the whole sweep with no partial snapshot so callers
// keep serving stale-but-valid data.
func (e *Executor) Sweep(ctx context.Context, hosts []registry.Host) (status.Snapshot, error) {
	if len(hosts) == 0 {
		return status.Snapshot{}, nil
	}

	workers := e.ceiling
	if len(hosts) < workers {
		workers = len(hosts)
	}

	jobs := make(chan registry.Host)
	results := make(chan status.HostStatus, len(hosts))
	fatals := make(chan error, 1)
	var aborted atomic.Bool

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range jobs {
				if aborted.Load() {
					continue
				}
				outcome, err := e.prober.Probe(ctx, h.Address)
				if err != nil {
					aborted.Store(true)
					select {
					case fatals <- err:
					default:
					}
					continue
				}
				results <- e.entry(h, outcome)
			}
		}()
	}

	for _, h := range hosts {
		jobs <- h
	}
	close(jobs)
	wg.Wait()
	close(results)

	select {
	case err := <-fatals:
		e.logger.Error("sweep aborted", slog.String("error", err.Error()))
		return nil, err
	default:
	}

	snapshot := make(status.Snapshot, len(hosts))
	for hs := range results {
		snapshot[hs.Host.Address] = hs
	}
	return snapshot, nil
}

// SweepOne probes a single host and returns its classified status.
func (e *Executor) SweepOne(ctx context.Context, host registry.Host) (status.HostStatus, error) {
	outcome, err := e.prober.Probe(ctx, host.Address)
	if err != nil {
		return status.HostStatus{}, err
	}
	return e.entry(host, outcome), nil
}

func (e *Executor) entry(host registry.Host, outcome prober.Outcome) status.HostStatus {
	return status.HostStatus{
		Host:      host,
		Tag:       status.Classify(outcome, host, e.thresholdMS),
		LatencyMS: outcome.LatencyMS,
		Error:     outcome.Err,
		CheckedAt: time.Now().UTC(),
	}
}
