// Package registry loads the monitored host list from a YAML file and keeps
// the active set behind an atomic swap. Reloads only replace the active set
// when parsing succeeds, so a broken edit never empties the registry.
package registry
