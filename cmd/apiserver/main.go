// API server entry point for HSCode-Intelligence.
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
	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	catalogsrc "github.com/turtacn/HSCode-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/database/postgres/repositories"
	redisdb "github.com/turtacn/HSCode-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/research"
	miniostore "github.com/turtacn/HSCode-Intelligence/internal/infrastructure/storage/minio"
	httpapi "github.com/turtacn/HSCode-Intelligence/internal/interfaces/http"
	"github.com/turtacn/HSCode-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/HSCode-Intelligence/internal/interfaces/http/middleware"
)

const (
	defaultConfigPath    = "configs/config.yaml"
	defaultMigrationsDir = "migrations"
)

// Version is injected at build time via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	migrationsDir := flag.String("migrations", defaultMigrationsDir, "path to schema migrations")
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

	logger.Info("starting HSCode-Intelligence API server",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port),
	)

	metrics := prometheus.NewMetrics()

	// PostgreSQL
	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", logging.Err(err))
	}
	defer conn.Close()
	if err := conn.RunMigrations(*migrationsDir); err != nil {
		logger.Fatal("schema migration failed", logging.Err(err))
	}

	repo := repositories.NewClassificationRepository(conn.DB(), logger)
	refRepo := repositories.NewReferenceRepository(conn.DB(), logger)

	// Redis
	redisClient, err := redisdb.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", logging.Err(err))
	}
	defer redisClient.Close()
	resultCache := redisdb.NewResultCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, logger)

	// Reference catalog: a configured source file wins over the database
	// table, and can be hot-reloaded through the file watcher.
	var catalogCache *classify.Catalog
	var watcher *catalogsrc.Watcher
	if cfg.Catalog.SourcePath != "" {
		catalogCache = classify.NewCatalog(catalogsrc.FileLoader(cfg.Catalog.SourcePath))
		if cfg.Catalog.Watch {
			watcher, err = catalogsrc.NewWatcher(cfg.Catalog.SourcePath, catalogCache, logger)
			if err != nil {
				logger.Fatal("catalog watcher failed", logging.Err(err))
			}
			defer watcher.Close()
		}
	} else {
		catalogCache = classify.NewCatalog(refRepo.ListEntries)
	}

	// Object storage and message queue
	uploads, err := miniostore.NewUploadStore(cfg.MinIO, logger)
	if err != nil {
		logger.Fatal("object storage connection failed", logging.Err(err))
	}
	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	// Research provider and application service
	researchClient := research.NewClient(cfg.Research, logger)
	service := appcls.NewService(
		repo,
		catalogCache,
		researchClient,
		cfg.Classify,
		cfg.Research.MaxSources,
		logger,
		appcls.WithResultCache(resultCache),
		appcls.WithConcurrency(cfg.Worker.Concurrency),
	)

	// HTTP surface
	httpapi.SetMode(cfg.Server.Mode)
	corsCfg := middleware.DefaultCORSConfig()
	router := httpapi.NewRouter(httpapi.RouterConfig{
		ClassifyHandler: handlers.NewClassifyHandler(service, uploads, producer, metrics, logger),
		CatalogHandler:  handlers.NewCatalogHandler(refRepo, catalogCache, metrics, logger),
		HealthHandler: handlers.NewHealthHandler(Version,
			handlers.CheckerFunc{ComponentName: "postgres", Fn: conn.HealthCheck},
			handlers.CheckerFunc{ComponentName: "redis", Fn: redisClient.HealthCheck},
		),
		Logger:     logger,
		Metrics:    metrics,
		CORSConfig: &corsCfg,
	})
	server := httpapi.NewServer(cfg.Server, router, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("http server error", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("http server shutdown error", logging.Err(err))
	}
	logger.Info("stopped")
}

// loadConfig reads the config file, falling back to pure environment
// configuration when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// logConfig adapts the platform's log section to the logger's own config.
func logConfig(cfg config.LogConfig) logging.LogConfig {
	out := logging.LogConfig{Level: cfg.Level, Format: cfg.Format}
	if cfg.Output != "" {
		out.OutputPaths = []string{cfg.Output}
	}
	return out
}

//Personal.AI order the ending
