// Package scheduler drives full sweeps of the host registry on a fixed
// cadence. The loop runs in a single goroutine, so scheduled sweeps never
// overlap: if a sweep outlasts the period, the one buffered tick fires the
// next sweep immediately on completion and further missed ticks are dropped,
// not queued.
package scheduler
