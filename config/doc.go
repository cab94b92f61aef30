// Package config handles loading and parsing of application configuration
// from YAML files and environment variables. It defines server settings,
// monitoring cadence, probe limits, and the location of the hosts file.
package config
