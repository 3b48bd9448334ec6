// Background worker entry point: consumes queued classification items,
// classifies them, and announces verdicts on the results topic.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcls "github.com/turtacn/HSCode-Intelligence/internal/application/classification"
	"github.com/turtacn/HSCode-Intelligence/internal/config"
	domain "github.com/turtacn/HSCode-Intelligence/internal/domain/classification"
	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	catalogsrc "github.com/turtacn/HSCode-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/database/postgres/repositories"
	redisdb "github.com/turtacn/HSCode-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/research"
)

const defaultConfigPath = "configs/config.yaml"

// Version is injected at build time via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logConfig(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	logger.Info("starting HSCode-Intelligence worker",
		logging.String("version", Version),
		logging.String("group_id", cfg.Kafka.GroupID),
	)

	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", logging.Err(err))
	}
	defer conn.Close()

	repo := repositories.NewClassificationRepository(conn.DB(), logger)
	refRepo := repositories.NewReferenceRepository(conn.DB(), logger)

	redisClient, err := redisdb.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", logging.Err(err))
	}
	defer redisClient.Close()
	resultCache := redisdb.NewResultCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, logger)

	var catalogCache *classify.Catalog
	if cfg.Catalog.SourcePath != "" {
		catalogCache = classify.NewCatalog(catalogsrc.FileLoader(cfg.Catalog.SourcePath))
	} else {
		catalogCache = classify.NewCatalog(refRepo.ListEntries)
	}

	researchClient := research.NewClient(cfg.Research, logger)
	service := appcls.NewService(
		repo,
		catalogCache,
		researchClient,
		cfg.Classify,
		cfg.Research.MaxSources,
		logger,
		appcls.WithResultCache(resultCache),
	)

	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()
	consumer := kafka.NewConsumer(cfg.Kafka, logger)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutdown signal received")
		cancel()
	}()

	handler := func(ctx context.Context, msg kafka.ItemMessage) error {
		item := &domain.Item{
			ID:          msg.ItemID,
			BatchID:     msg.BatchID,
			ProductName: msg.ProductName,
			MakerName:   msg.MakerName,
			Description: msg.Description,
			CreatedAt:   msg.EnqueuedAt,
		}
		result, err := service.HandleQueuedItem(ctx, item)
		if err != nil {
			return err
		}
		announce := kafka.ResultMessage{
			BatchID:     result.BatchID,
			ItemID:      result.ItemID,
			Score:       result.Score,
			NeedsReview: result.NeedsReview,
			RiskLevel:   result.RiskLevel,
			FinishedAt:  time.Now().UTC(),
		}
		if err := producer.PublishResult(ctx, announce); err != nil {
			// The verdict is already persisted; a lost announcement is not
			// worth re-running research for.
			logger.Warn("failed to announce result",
				logging.String("item_id", string(result.ItemID)),
				logging.Err(err),
			)
		}
		return nil
	}

	if err := consumer.Run(ctx, handler); err != nil {
		logger.Error("consumer stopped with error", logging.Err(err))
	}
	logger.Info("worker stopped",
		logging.Int64("processed", consumer.Processed()),
		logging.Int64("failed", consumer.Failed()),
	)
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func logConfig(cfg config.LogConfig) logging.LogConfig {
	out := logging.LogConfig{Level: cfg.Level, Format: cfg.Format}
	if cfg.Output != "" {
		out.OutputPaths = []string{cfg.Output}
	}
	return out
}

//Personal.AI order the ending
