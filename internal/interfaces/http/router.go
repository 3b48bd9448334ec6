// Package http assembles the REST API: route tree, middleware chain, and the
// server lifecycle around them.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/HSCode-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/HSCode-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required to
// construct the complete route tree.  Nil handlers leave their routes
// unregistered, which keeps partial wiring (tests, the worker's debug server)
// cheap.
type RouterConfig struct {
	ClassifyHandler *handlers.ClassifyHandler
	CatalogHandler  *handlers.CatalogHandler
	HealthHandler   *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.Metrics

	LoggingConfig *middleware.LoggingConfig
	CORSConfig    *middleware.CORSConfig
}

// NewRouter constructs the route tree: global middleware, public health
// probes, the metrics endpoint, and the versioned API group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if cfg.Logger != nil {
		logCfg := middleware.DefaultLoggingConfig()
		if cfg.LoggingConfig != nil {
			logCfg = *cfg.LoggingConfig
		}
		r.Use(middleware.RequestLogging(cfg.Logger, logCfg))
	}
	if cfg.CORSConfig != nil {
		r.Use(middleware.CORS(*cfg.CORSConfig))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	api := r.Group("/api/v1")
	registerClassifyRoutes(api, cfg.ClassifyHandler)
	registerCatalogRoutes(api, cfg.CatalogHandler)

	return r
}

// registerClassifyRoutes mounts classification endpoints.
func registerClassifyRoutes(r *gin.RouterGroup, h *handlers.ClassifyHandler) {
	if h == nil {
		return
	}
	r.POST("/classify/item", h.ClassifyItem)
	r.POST("/classify/batches", h.ClassifyBatch)
	r.POST("/classify/batches/upload", h.UploadBatch)
	r.GET("/batches/:batchID", h.GetBatch)
	r.GET("/batches/:batchID/results", h.ListResults)
}

// registerCatalogRoutes mounts catalog administration endpoints.
func registerCatalogRoutes(r *gin.RouterGroup, h *handlers.CatalogHandler) {
	if h == nil {
		return
	}
	r.GET("/candidates", h.Candidates)
	r.PUT("/catalog", h.Import)
	r.POST("/catalog/reload", h.Reload)
	r.GET("/catalog/stats", h.Stats)
}

//Personal.AI order the ending
