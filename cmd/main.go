package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/ping-monitor/config"
	"github.com/angeloszaimis/ping-monitor/internal/handler"
	"github.com/angeloszaimis/ping-monitor/internal/httpserver"
	"github.com/angeloszaimis/ping-monitor/internal/metrics"
	"github.com/angeloszaimis/ping-monitor/internal/prober"
	"github.com/angeloszaimis/ping-monitor/internal/registry"
	"github.com/angeloszaimis/ping-monitor/internal/scheduler"
	"github.com/angeloszaimis/ping-monitor/internal/status"
	"github.com/angeloszaimis/ping-monitor/internal/stream"
	"github.com/angeloszaimis/ping-monitor/internal/sweep"
	"github.com/angeloszaimis/ping-monitor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg, err := registry.New(cfg.Monitor.HostsFile, log)
	if err != nil {
		log.Error("Failed to load host registry", slog.Any("err", err))
		os.Exit(1)
	}

	collector := metrics.NewCollector(256, log)
	collector.Start(ctx)

	cache := status.NewCache()
	systemProber := prober.NewSystem(cfg.ProbeTimeoutDuration(), log)
	executor := sweep.New(systemProber, cfg.Monitor.MaxConcurrent, cfg.Monitor.SlowLatencyMS, log)

	sched := scheduler.New(executor, reg, cache, collector, cfg.IntervalDuration(), log)
	go sched.Run(ctx)

	api := handler.NewAPI(log, reg, cache, executor, collector)
	mux := setupRouter(api, collector, stream.New(cache, log))

	srv, err := httpserver.New(cfg.Server.Address, mux)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("ping monitor started",
		slog.String("addr", cfg.Server.Address),
		slog.Int("hosts", reg.Len()))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}
