// Package handler implements the monitor's HTTP API.
package handler
