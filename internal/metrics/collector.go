package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/ping-monitor/internal/status"
)

type EventType string

const (
	EventSweepCompleted EventType = "sweep_completed"
	EventSweepFailed    EventType = "sweep_failed"
)

type Event struct {
	Type      EventType
	Timestamp time.Time
	Scheduled bool
	Duration  time.Duration
	Counts    map[status.Tag]int
}

type Collector struct {
	eventCh chan Event
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- Event {
	return c.eventCh
}

// Emit sends an event without blocking; events are dropped when the buffer
// is full. Safe to call on a nil collector.
func (c *Collector) Emit(event Event) {
	if c == nil {
		return
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventSweepCompleted:
		c.metrics.RecordSweep(event)

	case EventSweepFailed:
		c.metrics.RecordFailedSweep(event)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

// CountsOf tallies how many hosts carry each status tag in a snapshot.
func CountsOf(snap status.Snapshot) map[status.Tag]int {
	counts := make(map[status.Tag]int)
	for _, hs := range snap {
		counts[hs.Tag]++
	}
	return counts
}
