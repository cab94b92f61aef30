package status

import (
	"github.com/angeloszaimis/ping-monitor/internal/prober"
	"github.com/angeloszaimis/ping-monitor/internal/registry"
)

// Classify maps a raw probe outcome and the host's registry metadata to a
// status tag. A reachable host with no parseable latency counts as online.
func Classify(outcome prober.Outcome, host registry.Host, slowThresholdMS float64) Tag {
	if outcome.Reachable {
		if outcome.LatencyMS != nil && *outcome.LatencyMS > slowThresholdMS {
			return TagSlow
		}
		return TagOnline
	}

	if host.KnownOffline {
		return TagKnownOffline
	}
	return TagUnknownOffline
}
