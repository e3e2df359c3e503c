// File: app/app.go
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bank-ledger/config"
	"go-bank-ledger/db"
	"go-bank-ledger/events"
	"go-bank-ledger/events/kafka"
	"go-bank-ledger/handler"
	"go-bank-ledger/logger"
	"go-bank-ledger/repository"
	"go-bank-ledger/router"
	"go-bank-ledger/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	// --- Persistent Store ---
	// The store is opened here, injected into the services and closed on
	// shutdown; nothing below holds package-level mutable state.
	store, err := openStore()
	if err != nil {
		logger.Log.Fatalf("Error opening the persistent store: %v", err)
	}
	defer store.Close()

	var cache service.ICacheClient
	if config.AppConfig.Redis.Enabled {
		redisClient, err := db.ConnectRedis()
		if err != nil {
			logger.Log.Fatalf("Error connecting to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = redisClient
	}

	var publisher events.IEventPublisher
	if config.AppConfig.Kafka.Enabled {
		kafkaPublisher := kafka.NewPublisher(config.AppConfig.Kafka.Brokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Log.WithField("brokers", config.AppConfig.Kafka.Brokers).Info("Kafka publisher enabled")
	}

	// --- Wiring All Layers Together ---
	userService := service.NewUserService(store, cache)
	userHandler := handler.NewUserHandler(userService)

	ledgerService := service.NewLedgerService(store, publisher, config.AppConfig.Ledger.StrictIdentityCheck)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)

	// Reconcile any journal intents left behind by a crash before the
	// engine serves its first operation.
	if err := ledgerService.Recover(context.Background()); err != nil {
		logger.Log.Fatalf("Error recovering the ledger journal: %v", err)
	}

	r := router.NewRouter(userHandler, ledgerHandler)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

func openStore() (repository.IStore, error) {
	switch config.AppConfig.Storage.Backend {
	case "postgres":
		database, err := db.Connect()
		if err != nil {
			return nil, err
		}
		if err := db.Migrate("file://db/migrations"); err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(database), nil
	default:
		return repository.NewFileStore(config.AppConfig.Storage.DataDir)
	}
}
