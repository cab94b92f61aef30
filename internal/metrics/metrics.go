package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/angeloszaimis/ping-monitor/internal/status"
)

type Metrics struct {
	mutex           sync.RWMutex
	startTime       time.Time
	scheduledSweeps int64
	onDemandSweeps  int64
	failedSweeps    int64
	sweepDurations  []time.Duration
	lastSweepAt     time.Time
	lastDuration    time.Duration
	lastCounts      map[status.Tag]int
	totalCounts     map[status.Tag]int64
}

type Snapshot struct {
	Uptime          time.Duration        `json:"uptime"`
	ScheduledSweeps int64                `json:"scheduled_sweeps"`
	OnDemandSweeps  int64                `json:"on_demand_sweeps"`
	FailedSweeps    int64                `json:"failed_sweeps"`
	LastSweepAt     time.Time            `json:"last_sweep_at"`
	LastDuration    time.Duration        `json:"last_sweep_duration"`
	LastCounts      map[status.Tag]int   `json:"last_sweep_counts"`
	TotalCounts     map[status.Tag]int64 `json:"total_counts"`
	AvgDuration     time.Duration        `json:"avg_sweep_duration"`
	P50Duration     time.Duration        `json:"p50_sweep_duration"`
	P95Duration     time.Duration        `json:"p95_sweep_duration"`
	P99Duration     time.Duration        `json:"p99_sweep_duration"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime:   time.Now(),
		lastCounts:  make(map[status.Tag]int),
		totalCounts: make(map[status.Tag]int64),
	}
}

func (m *Metrics) RecordSweep(event Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if event.Scheduled {
		m.scheduledSweeps++
	} else {
		m.onDemandSweeps++
	}

	m.sweepDurations = append(m.sweepDurations, event.Duration)
	if len(m.sweepDurations) > 1000 {
		m.sweepDurations = m.sweepDurations[1:]
	}

	m.lastSweepAt = event.Timestamp
	m.lastDuration = event.Duration

	m.lastCounts = make(map[status.Tag]int, len(event.Counts))
	for tag, n := range event.Counts {
		m.lastCounts[tag] = n
		m.totalCounts[tag] += int64(n)
	}
}

func (m *Metrics) RecordFailedSweep(Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failedSweeps++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:          time.Since(m.startTime),
		ScheduledSweeps: m.scheduledSweeps,
		OnDemandSweeps:  m.onDemandSweeps,
		FailedSweeps:    m.failedSweeps,
		LastSweepAt:     m.lastSweepAt,
		LastDuration:    m.lastDuration,
		LastCounts:      make(map[status.Tag]int, len(m.lastCounts)),
		TotalCounts:     make(map[status.Tag]int64, len(m.totalCounts)),
	}

	for tag, n := range m.lastCounts {
		snap.LastCounts[tag] = n
	}
	for tag, n := range m.totalCounts {
		snap.TotalCounts[tag] = n
	}

	if len(m.sweepDurations) > 0 {
		sorted := make([]time.Duration, len(m.sweepDurations))
		copy(sorted, m.sweepDurations)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] < sorted[j]
		})

		snap.AvgDuration = average(sorted)
		snap.P50Duration = percentile(sorted, 0.50)
		snap.P95Duration = percentile(sorted, 0.95)
		snap.P99Duration = percentile(sorted, 0.99)
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
