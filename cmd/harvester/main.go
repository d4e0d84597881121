package main

import (
	"context"
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
	"github.com/aircast/hub/pkg/intake"
	"github.com/aircast/hub/pkg/request"
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

	historyRepo := harvest.NewHistoryRepository(db)
	if err := historyRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate harvest history tables")
	}

	producer := kafka.NewProducer(cfg.HubEventTopic)
	defer producer.Close()

	runner := harvest.NewRunner(intake.NewValidator(), requestRepo, historyRepo, producer)

	var adaptors []adaptor.Adaptor
	if cfg.FBAppID != "" && cfg.FBPageID != "" {
		adaptors = append(adaptors, adaptor.NewFacebookAdaptor(
			cfg.FBAppID, cfg.FBAppSecret, cfg.FBPageID, cfg.FBGraphURL, cfg.AdaptorTimeout))
	}
	if len(adaptors) == 0 {
		logger.Log.Fatal("no harvest adaptors configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	harvestAll := func() {
		for _, a := range adaptors {
			if _, err := runner.Run(ctx, a); err != nil {
				logger.Log.WithError(err).WithField("adaptor", a.Info().Name).Error("harvest run failed")
			}
		}
	}

	logger.Log.WithField("interval", cfg.HarvestInterval.String()).Info("Harvester started")
	harvestAll()

	ticker := time.NewTicker(cfg.HarvestInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			harvestAll()
		case <-quit:
			logger.Log.Info("Harvester stopped")
			return
		}
	}
}
