// Package prober executes single-shot reachability checks by invoking the
// platform ping binary with a hard timeout. Expected failures (unreachable,
// resolution failure, timeout) resolve to an unreachable outcome; only a
// missing or broken ping binary surfaces as an error.
package prober
