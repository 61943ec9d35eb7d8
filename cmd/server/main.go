package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/config"
	"github.com/davuth/shopledger/internal/repository/mongodb"
	"github.com/davuth/shopledger/internal/repository/sheets"
	"github.com/davuth/shopledger/internal/scheduler"
	"github.com/davuth/shopledger/internal/server/handlers"
	"github.com/davuth/shopledger/internal/server/router"
	ledgersvc "github.com/davuth/shopledger/internal/service/ledger"
	reportsvc "github.com/davuth/shopledger/internal/service/reports"
	"github.com/davuth/shopledger/pkg/clients/notify"
	"github.com/davuth/shopledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := repo.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetExporter
		baseLogger.Info("google sheets export enabled")
	}

	var notifier ledgersvc.Notifier
	if webhook := notify.NewWebhookNotifier(cfg.Notifier, baseLogger.Named("notify.webhook")); webhook != nil {
		notifier = webhook
		baseLogger.Info("low stock webhook enabled")
	}

	ledgerSvc := ledgersvc.NewService(repo, notifier, baseLogger.Named("svc.ledger"))
	reportsSvc := reportsvc.NewService(repo, baseLogger.Named("svc.reports"))

	engine := router.New(router.Handlers{
		Products:     handlers.NewProductHandler(repo, baseLogger.Named("handlers.products")),
		Clients:      handlers.NewClientHandler(repo, baseLogger.Named("handlers.clients")),
		Vendors:      handlers.NewVendorHandler(repo, baseLogger.Named("handlers.vendors")),
		Transactions: handlers.NewTransactionHandler(ledgerSvc, reportsSvc, baseLogger.Named("handlers.transactions")),
		Reports:      handlers.NewReportHandler(reportsSvc, repo, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Summary, reportsSvc, repo, exporter, baseLogger.Named("scheduler"))
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
