package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/repository/auditlog"
	"github.com/mamadbah2/warehouse/internal/repository/flatfile"
	"github.com/mamadbah2/warehouse/internal/repository/mongodb"
	"github.com/mamadbah2/warehouse/internal/repository/sheets"
	"github.com/mamadbah2/warehouse/internal/scheduler"
	"github.com/mamadbah2/warehouse/internal/server/handlers"
	"github.com/mamadbah2/warehouse/internal/server/router"
	alertsvc "github.com/mamadbah2/warehouse/internal/service/alerts"
	commandsvc "github.com/mamadbah2/warehouse/internal/service/commands"
	inventorysvc "github.com/mamadbah2/warehouse/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/warehouse/internal/service/reporting"
	"github.com/mamadbah2/warehouse/pkg/clients/notifier"
	"github.com/mamadbah2/warehouse/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	fs := afero.NewOsFs()
	fileRepo := flatfile.NewRepository(fs, flatfile.Options{
		Path:      cfg.Storage.InventoryPath,
		BackupDir: cfg.Storage.BackupDir,
		Strict:    cfg.Storage.StrictLoad,
	}, baseLogger.Named("repo.flatfile"))

	inventoryStore, err := fileRepo.Load()
	if err != nil {
		baseLogger.Fatal("failed to load inventory", zap.Error(err))
	}

	audit := auditlog.New(fs, cfg.Storage.LogPath, baseLogger.Named("repo.auditlog"))
	inventorySvc := inventorysvc.NewService(inventoryStore, fileRepo, audit, baseLogger.Named("svc.inventory"))
	reportingSvc := reportingsvc.NewService(inventorySvc, baseLogger.Named("svc.reporting"))
	commandDispatcher := commandsvc.NewService(inventorySvc, reportingSvc, commandsvc.Settings{
		LowStockThreshold:  cfg.Inventory.LowStockThreshold,
		RequiredCategories: cfg.Inventory.RequiredCategories,
	}, baseLogger.Named("svc.commands"))

	var alertClient notifier.Client
	if cfg.Alerts.WebhookURL != "" {
		alertClient = notifier.NewClient(notifier.Config{WebhookURL: cfg.Alerts.WebhookURL, Token: cfg.Alerts.Token})
		baseLogger.Info("low stock alerts enabled")
	} else {
		baseLogger.Warn("alert webhook missing, low stock alerts will only be logged")
	}
	alertSvc := alertsvc.NewService(reportingSvc, alertClient, cfg.Inventory.LowStockThreshold, baseLogger.Named("svc.alerts"))

	deps := scheduler.Deps{
		Inventory: inventorySvc,
		Reporting: reportingSvc,
		Alerts:    alertSvc,
	}

	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		deps.Archive = mongoRepo
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		deps.Exporter = sheetsRepo
	}

	sched, err := scheduler.NewScheduler(*cfg, deps, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	handler := handlers.NewInventoryHandler(inventorySvc, reportingSvc, commandDispatcher, handlers.Settings{
		LowStockThreshold:  cfg.Inventory.LowStockThreshold,
		RequiredCategories: cfg.Inventory.RequiredCategories,
	}, baseLogger.Named("handlers.inventory"))
	engine := router.New(handler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
	sched.Stop()

	if err := inventorySvc.Save(); err != nil {
		baseLogger.Error("failed to save inventory on shutdown", zap.Error(err))
	}
}
