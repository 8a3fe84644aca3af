package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-impact-aggregator/internal/adapter/catalog"
	"github.com/couchcryptid/quake-impact-aggregator/internal/adapter/gazetteer"
	"github.com/couchcryptid/quake-impact-aggregator/internal/adapter/geotime"
	"github.com/couchcryptid/quake-impact-aggregator/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/quake-impact-aggregator/internal/adapter/kafka"
	"github.com/couchcryptid/quake-impact-aggregator/internal/config"
	"github.com/couchcryptid/quake-impact-aggregator/internal/observability"
	"github.com/couchcryptid/quake-impact-aggregator/internal/pipeline"
	"github.com/couchcryptid/quake-impact-aggregator/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	cat, err := catalog.Load(cfg.CatalogFile, logger)
	if err != nil {
		logger.Error("failed to load historical catalog", "error", err)
		os.Exit(1)
	}

	collab := report.Collaborators{
		Catalog:   cat,
		Gazetteer: gazetteer.New(logger),
		Localizer: geotime.Localizer{},
		Elapsed:   geotime.ElapsedFormatter{},
	}

	if cfg.CityFile == "" {
		logger.Info("city table disabled, no CITY_FILE configured")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(collab, cfg.CityFile, cfg.MapCityCount, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start aggregation pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
