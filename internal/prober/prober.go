package prober

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Outcome is the raw result of one probe attempt. LatencyMS is nil when the
// ping succeeded but no round-trip time could be parsed from its output.
type Outcome struct {
	Reachable bool
	LatencyMS *float64
	Err       string
}

// Prober performs a single reachability check against one address.
type Prober interface {
	Probe(ctx context.Context, address string) (Outcome, error)
}

// contextGrace pads the command context past the ping binary's own timeout
// so the binary normally wins the race and reports its own result.
const contextGrace = 2 * time.Second

// SystemProber shells out to the platform ping binary with one echo attempt.
type SystemProber struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewSystem creates a prober with the given per-probe timeout.
func NewSystem(timeout time.Duration, logger *slog.Logger) *SystemProber {
	return &SystemProber{
		timeout: timeout,
		logger:  logger,
	}
}

// Probe pings one address. The returned error is non-nil only when the ping
// binary itself is unavailable or failed to start.
func (p *SystemProber) Probe(ctx context.Context, address string) (Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout+contextGrace)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ping", p.args(address)...)
	out, err := cmd.Output()

	if ctx.Err() == context.DeadlineExceeded {
		return Outcome{Reachable: false, Err: "timeout"}, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit: unreachable, packet loss, or name resolution
			// failure. All expected, all classify as offline.
			return Outcome{Reachable: false, Err: exitDiagnostic(exitErr)}, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return Outcome{}, fmt.Errorf("ping executable unavailable: %w", err)
		}
		return Outcome{}, fmt.Errorf("ping invocation failed: %w", err)
	}

	latency := parseLatency(string(out))
	p.logger.Debug("probe completed",
		slog.String("host", address),
		slog.Any("latency_ms", latency))

	return Outcome{Reachable: true, LatencyMS: latency}, nil
}

func (p *SystemProber) args(address string) []string {
	if runtime.GOOS == "windows" {
		return []string{"-n", "1", "-w", strconv.FormatInt(p.timeout.Milliseconds(), 10), address}
	}

	secs := int(p.timeout.Seconds())
	if secs < 1 {
		secs = 1
	}
	return []string{"-c", "1", "-W", strconv.Itoa(secs), address}
}

func exitDiagnostic(exitErr *exec.ExitError) string {
	if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
		return msg
	}
	return exitErr.Error()
}

// parseLatency extracts the round-trip time in milliseconds from ping
// output. Unix ping reports "time=12.3 ms", Windows "time=12ms" or
// "time<1ms" for sub-millisecond replies.
func parseLatency(output string) *float64 {
	for _, line := range strings.Split(strings.ToLower(output), "\n") {
		if idx := strings.Index(line, "time="); idx >= 0 {
			token := strings.Fields(line[idx+len("time="):])
			if len(token) == 0 {
				continue
			}
			value := strings.TrimSuffix(token[0], "ms")
			ms, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			return &ms
		}
		if strings.Contains(line, "time<") {
			ms := 1.0
			return &ms
		}
	}
	return nil
}
