package main

import (
	"net/http"

	"github.com/angeloszaimis/ping-monitor/internal/handler"
	"github.com/angeloszaimis/ping-monitor/internal/metrics"
	"github.com/angeloszaimis/ping-monitor/internal/stream"
)

func setupRouter(api *handler.API, collector *metrics.Collector, statusStream *stream.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/hosts", api.Hosts)
	mux.HandleFunc("GET /api/ping-all", api.PingAll)
	mux.HandleFunc("GET /api/ping/{host}", api.PingOne)
	mux.HandleFunc("GET /api/status", api.Status)
	mux.HandleFunc("GET /api/reload", api.Reload)
	mux.HandleFunc("GET /api/health", api.Health)
	mux.HandleFunc("GET /metrics", collector.Handler())
	mux.Handle("GET /ws/status", statusStream)

	return mux
}
