// Package metrics provides real-time metrics collection for the monitor.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Sweep counts, split into scheduled and on-demand
//   - Sweep durations with percentile calculations (P50, P95, P99)
//   - Failed sweeps (probe subsystem unavailable)
//   - Host status distribution from the most recent sweep
//
// The collector runs in a dedicated goroutine and processes events without
// blocking the probing path. Events are sent via a buffered channel with
// non-blocking semantics. Shutdown drains pending events to prevent data
// loss.
package metrics
