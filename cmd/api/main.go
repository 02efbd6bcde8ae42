package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ech-simulator/internal/api"
	"ech-simulator/internal/app"
	"ech-simulator/internal/config"
	"ech-simulator/internal/logging"
	"ech-simulator/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML or TOML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.New(cfg, logger, reg)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(logger)
	if spec := cfg.Data.RegenerateSchedule; spec != "" {
		err := sched.Add("regenerate-baseline", spec, func() {
			if err := a.RegenerateDefault(); err != nil {
				logger.Error("scheduled regeneration failed", "error", err)
			}
		})
		if err != nil {
			logger.Error("invalid regenerate schedule", "error", err)
			os.Exit(1)
		}
		sched.Start()
	}

	router := api.NewRouter(api.Deps{
		Engine:      a.Engine,
		Catalog:     a.Catalog,
		Regenerator: a.Regenerator,
		Metrics:     a.Metrics,
		Gatherer:    reg,
		Logger:      logger,
		Server:      cfg.Server,
		StartDate:   a.StartDate(),
		Periods:     cfg.Data.Periods,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting API server", "addr", srv.Addr, "env", cfg.Server.Env, "forecast_model", a.Engine.ForecastModel())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sched.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
