// Package sweep implements the concurrent probing fan-out. A sweep probes
// every host in the given set under a bounded worker budget, classifies each
// outcome, and returns one complete snapshot. Individual probe failures are
// absorbed into classification; only an unavailable probe subsystem aborts
// the sweep.
package sweep
