package status

import (
	"time"

	"github.com/angeloszaimis/ping-monitor/internal/registry"
)

// Tag is the classified state of a host.
type Tag string

const (
	// TagUnknown marks a registered host that has not been probed yet.
	TagUnknown Tag = "unknown"

	TagOnline         Tag = "online"
	TagSlow           Tag = "slow"
	TagKnownOffline   Tag = "known_offline"
	TagUnknownOffline Tag = "unknown_offline"
)

// Offline reports whether the tag is any offline state. Callers that need a
// coarse online/slow/offline tri-state derive it through this union.
func (t Tag) Offline() bool {
	return t == TagKnownOffline || t == TagUnknownOffline
}

// DefaultSlowThresholdMS is the latency boundary between online and slow.
// Latencies at exactly the threshold count as online.
const DefaultSlowThresholdMS = 50.0

// HostStatus is the latest classified state of one host.
type HostStatus struct {
	Host      registry.Host `json:"host"`
	Tag       Tag           `json:"status"`
	LatencyMS *float64      `json:"latency_ms,omitempty"`
	Error     string        `json:"error,omitempty"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Snapshot maps host addresses to their status as committed by one sweep.
type Snapshot map[string]HostStatus
