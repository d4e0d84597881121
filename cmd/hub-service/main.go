package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aircast/hub/pkg/adaptor"
	"github.com/aircast/hub/pkg/common/config"
	"github.com/aircast/hub/pkg/common/database"
	"github.com/aircast/hub/pkg/common/kafka"
	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/harvest"
	"github.com/aircast/hub/pkg/hub/middleware"
	"github.com/aircast/hub/pkg/intake"
	"github.com/aircast/hub/pkg/observability/metrics"
	"github.com/aircast/hub/pkg/playlist"
	"github.com/aircast/hub/pkg/request"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer database.ClosePostgres()

	requestRepo := request.NewRepository(db)
	if err := requestRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate request tables")
	}

	playlistRepo := playlist.NewRepository(db)
	if err := playlistRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate playlist tables")
	}

	registry := adaptor.NewRegistry(db)
	if err := registry.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate adaptor registry tables")
	}

	historyRepo := harvest.NewHistoryRepository(db)
	if err := historyRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate harvest history tables")
	}

	cache := database.GetRedis()
	defer database.CloseRedis()

	producer := kafka.NewProducer(cfg.HubEventTopic)
	defer producer.Close()

	topics, err := request.LoadTopics(cfg.TopicCatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load topic catalog")
	}

	validator := intake.NewValidator()
	requestSvc := request.NewService(validator, requestRepo, cache, producer, topics, cfg.PoolCacheTTL)
	playlistSvc := playlist.NewService(playlistRepo, requestSvc, producer)
	runner := harvest.NewRunner(validator, requestRepo, historyRepo, producer)

	requestHandler := request.NewHTTPHandler(requestSvc, cfg.MaxRequestBody)
	playlistHandler := playlist.NewHTTPHandler(playlistSvc)
	registryHandler := adaptor.NewRegistryHandler(registry)
	emailWebhook := adaptor.NewEmailWebhook(cfg.EmailSignature, cfg.EmailAddress, runner)

	router := mux.NewRouter()
	router.Use(middleware.Logging, middleware.Recovery)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(r.Context()) != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	requestHandler.Register(api)
	playlistHandler.Register(api)
	registryHandler.Register(api)
	emailWebhook.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Hub Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Hub Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Hub Service stopped")
}
