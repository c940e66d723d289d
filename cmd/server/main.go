package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cropbook/internal/config"
	"github.com/mamadbah2/cropbook/internal/domain/models"
	"github.com/mamadbah2/cropbook/internal/repository/mongodb"
	"github.com/mamadbah2/cropbook/internal/repository/sheets"
	"github.com/mamadbah2/cropbook/internal/scheduler"
	"github.com/mamadbah2/cropbook/internal/server/handlers"
	"github.com/mamadbah2/cropbook/internal/server/router"
	"github.com/mamadbah2/cropbook/internal/service/analytics"
	marketclient "github.com/mamadbah2/cropbook/pkg/clients/market"
	"github.com/mamadbah2/cropbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets export enabled")
	} else {
		baseLogger.Warn("sheets export disabled, snapshot rows stay in mongodb only")
	}

	var market marketclient.Client
	if cfg.Market.BaseURL != "" {
		market = marketclient.NewClient(cfg.Market)
		baseLogger.Info("market price client enabled")
	} else {
		baseLogger.Warn("market api base url missing, projected revenue uses recorded prices only")
	}

	defaults := models.ReportFilters{
		Granularity: models.Granularity(cfg.Reporting.Granularity),
		TopN:        cfg.Reporting.TopN,
	}
	analyticsSvc := analytics.NewService(mongoRepo, exporter, market, defaults, baseLogger.Named("svc.analytics"))

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, baseLogger.Named("handlers.analytics"))
	engine := router.New(analyticsHandler, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, analyticsSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
