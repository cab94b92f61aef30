package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/ping-monitor/internal/metrics"
	"github.com/angeloszaimis/ping-monitor/internal/registry"
	"github.com/angeloszaimis/ping-monitor/internal/status"
	"github.com/angeloszaimis/ping-monitor/internal/sweep"
)

// API serves the monitor's HTTP endpoints. On-demand sweeps write through
// the same status cache as the background scheduler; the last commit wins.
type API struct {
	logger    *slog.Logger
	registry  *registry.Registry
	cache     *status.Cache
	executor  *sweep.Executor
	collector *metrics.Collector
	startTime time.Time
}

func NewAPI(
	logger *slog.Logger,
	reg *registry.Registry,
	cache *status.Cache,
	executor *sweep.Executor,
	collector *metrics.Collector,
) *API {
	return &API{
		logger:    logger,
		registry:  reg,
		cache:     cache,
		executor:  executor,
		collector: collector,
		startTime: time.Now(),
	}
}

// hostEntry is a registry host joined with its latest cached status.
type hostEntry struct {
	registry.Host
	Status    status.Tag `json:"status"`
	LatencyMS *float64   `json:"latency_ms,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// Hosts lists every registered host with its cached status when present.
func (a *API) Hosts(w http.ResponseWriter, r *http.Request) {
	hosts := a.registry.Current()
	out := make([]hostEntry, 0, len(hosts))

	for _, h := range hosts {
		entry := hostEntry{Host: h, Status: status.TagUnknown}
		if hs, ok := a.cache.Get(h.Address); ok {
			entry.Status = hs.Tag
			entry.LatencyMS = hs.LatencyMS
			checkedAt := hs.CheckedAt
			entry.CheckedAt = &checkedAt
		}
		out = append(out, entry)
	}

	writeJSON(w, http.StatusOK, out)
}

// PingAll triggers an immediate full sweep, commits it, and returns the
// resulting snapshot. A fatal sweep error leaves the cache untouched.
func (a *API) PingAll(w http.ResponseWriter, r *http.Request) {
	a.logger.Info("manual sweep triggered",
		slog.String("from", r.RemoteAddr))

	hosts := a.registry.Current()
	start := time.Now()

	// Probes run to completion even if the client goes away mid-sweep.
	snapshot, err := a.executor.Sweep(context.WithoutCancel(r.Context()), hosts)
	if err != nil {
		a.collector.Emit(metrics.Event{
			Type:      metrics.EventSweepFailed,
			Timestamp: time.Now(),
		})
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("sweep failed: %v", err))
		return
	}

	a.cache.Replace(snapshot)
	a.collector.Emit(metrics.Event{
		Type:      metrics.EventSweepCompleted,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
		Counts:    metrics.CountsOf(snapshot),
	})

	writeJSON(w, http.StatusOK, snapshot)
}

// PingOne probes a single registered host and commits its entry.
func (a *API) PingOne(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("host")

	host, err := a.registry.Lookup(address)
	if err != nil {
		if errors.Is(err, registry.ErrHostNotFound) {
			writeError(w, http.StatusNotFound, "Host not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hs, err := a.executor.SweepOne(context.WithoutCancel(r.Context()), host)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("probe failed: %v", err))
		return
	}

	a.cache.Put(hs)
	writeJSON(w, http.StatusOK, hs)
}

// Status returns the cached snapshot without triggering any probing.
func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.cache.All())
}

// Reload re-reads the hosts file. A failed reload keeps the previous host
// set active and reports the parse error to the caller.
func (a *API) Reload(w http.ResponseWriter, r *http.Request) {
	count, err := a.registry.Reload()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Reloaded %d hosts", count),
	})
}

// Health is a liveness probe. It must answer even before the first sweep
// completes, so it reads nothing from the cache or scheduler.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"hosts_count": a.registry.Len(),
		"uptime":      time.Since(a.startTime).String(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
