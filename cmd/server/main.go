package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/repository/kv"
	"github.com/mamadbah2/shopledger/internal/repository/mongodb"
	"github.com/mamadbah2/shopledger/internal/repository/sheets"
	"github.com/mamadbah2/shopledger/internal/scheduler"
	"github.com/mamadbah2/shopledger/internal/server/handlers"
	"github.com/mamadbah2/shopledger/internal/server/router"
	catalogsvc "github.com/mamadbah2/shopledger/internal/service/catalog"
	commandsvc "github.com/mamadbah2/shopledger/internal/service/commands"
	reportingsvc "github.com/mamadbah2/shopledger/internal/service/reporting"
	salessvc "github.com/mamadbah2/shopledger/internal/service/sales"
	whatsappsvc "github.com/mamadbah2/shopledger/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/shopledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/shopledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	location, err := cfg.Shop.Location()
	if err != nil {
		baseLogger.Fatal("failed to load shop timezone", zap.Error(err))
	}

	sinks := map[string]scheduler.ReportSink{}

	var mongoRepo *mongodb.MongoDBRepository
	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err = mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks["mongodb"] = mongoRepo
	}

	var backend kv.Backend
	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		backend, err = kv.NewFileBackend(cfg.Store.Dir)
		if err != nil {
			baseLogger.Fatal("failed to init file store", zap.Error(err))
		}
	case config.StoreDriverMongo:
		backend = mongoRepo
	case config.StoreDriverMemory:
		baseLogger.Warn("memory store selected, data is lost on restart")
		backend = kv.NewMemoryBackend()
	}
	baseLogger.Info("store ready", zap.String("driver", cfg.Store.Driver))

	store := kv.NewJSONStore(backend, baseLogger.Named("repo.kv"))
	catalogSvc := catalogsvc.NewService(store, baseLogger.Named("svc.catalog"))
	salesSvc := salessvc.NewService(store, location, baseLogger.Named("svc.sales"))
	reportingSvc := reportingsvc.NewService(store, location, cfg.Shop.LowStockThreshold, baseLogger.Named("svc.reporting"))

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks["sheets"] = sheets.NewDailyReportWriter(sheetsRepo)
	}

	var (
		notifier       scheduler.Notifier
		webhookHandler *handlers.WebhookHandler
	)
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(catalogSvc, salesSvc, reportingSvc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		if cfg.WhatsApp.ManagerID != "" {
			notifier = messagingSvc
		}
	} else {
		baseLogger.Warn("whatsapp token missing, command channel disabled")
	}

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, location, cfg.Shop.Name, reportingSvc, sinks, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Inventory: handlers.NewInventoryHandler(catalogSvc, baseLogger.Named("handlers.inventory")),
		Sales:     handlers.NewSalesHandler(salesSvc, baseLogger.Named("handlers.sales")),
		Reports:   handlers.NewReportHandler(reportingSvc, sched, baseLogger.Named("handlers.reports")),
		Webhook:   webhookHandler,
	}, cfg.Server.AllowedOrigins, baseLogger.Named("router"))

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
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("shop", cfg.Shop.Name))
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
