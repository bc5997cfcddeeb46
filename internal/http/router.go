package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelreader/internal/fetcher"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.logger()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(MetricsMiddleware(cfg.Metrics))
	router.Use(AccessLogMiddleware(logger))

	health := NewHealthController(cfg.Database, cfg.TaskClient, cfg.Cache, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	api := router.Group("/api")

	// Fetching and ingestion
	if cfg.Library != nil && cfg.Probe != nil {
		fetch := NewFetchController(cfg.Library, cfg.Probe, cfg.TaskClient, cfg.FetchTimeout, cfg.FetchRetries, logger)
		api.POST("/fetch/url", fetch.FetchURL)
		api.POST("/fetch/url/stream", fetch.StreamURL)
		api.POST("/fetch/upload", fetch.Upload)
		api.POST("/fetch/custom-json/preview", fetch.PreviewCustomJSON)
		api.POST("/fetch/custom-json", fetch.IngestCustomJSON)
		api.GET("/fetch/check", fetch.Check)
	}

	// Catalog
	if cfg.Library != nil && cfg.Reader != nil {
		opts := fetcher.Options{Timeout: cfg.FetchTimeout, Retries: cfg.FetchRetries}
		novels := NewNovelsController(cfg.Library, cfg.Reader, opts, logger)
		api.GET("/novels", novels.List)
		api.GET("/novels/:id", novels.Get)
		api.GET("/novels/:id/content", novels.Content)
		api.POST("/novels/:id/refresh", novels.Refresh)
		api.DELETE("/novels/:id", novels.Delete)
	}

	// Search and reader state
	if cfg.Reader != nil && cfg.State != nil {
		search := NewSearchController(cfg.Reader, cfg.State, logger)
		api.GET("/search", search.Search)
		api.GET("/search/history", search.History)
		api.DELETE("/search/history", search.ClearHistory)
	}
	if cfg.State != nil {
		state := NewStateController(cfg.State)
		api.GET("/progress", state.ListProgress)
		api.GET("/progress/:novelId", state.GetProgress)
		api.PUT("/progress/:novelId", state.SaveProgress)
		api.DELETE("/progress/:novelId", state.DeleteProgress)
		api.GET("/preferences", state.GetPreferences)
		api.PATCH("/preferences", state.UpdatePreferences)
	}

	// Cache maintenance
	if cfg.Cache != nil {
		cache := NewCacheController(cfg.Cache, cfg.Audit)
		api.GET("/cache/stats", cache.Stats)
		api.POST("/cache/cleanup", cache.Cleanup)
		api.DELETE("/cache", cache.Clear)
	}

	// Text utilities
	api.POST("/text/clean", CleanText)
	api.POST("/text/detect", DetectText)

	// Task queue
	tasksController := NewTasksController(cfg.TaskClient, logger)
	api.GET("/tasks/:id", tasksController.GetTaskStatus)

	// Audit log
	if cfg.Audit != nil {
		audit := NewAuditController(cfg.Audit, logger)
		api.GET("/audit", audit.List)
		api.GET("/novels/:id/audit", audit.ForNovel)
	}

	return router
}
