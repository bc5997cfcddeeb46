package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/config"
	http_controllers "github.com/mrlokans/novelreader/internal/http"
	"github.com/mrlokans/novelreader/internal/scheduler"
	"github.com/mrlokans/novelreader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then calls onShutdown
// and drains open connections within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so no new task starts mid-shutdown
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// Run wires every component from cfg and serves the HTTP API.
func Run(cfg *config.Config, version string) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting novelreader", zap.String("version", version))

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("error closing application", zap.Error(err))
		}
	}()

	routerCfg := http_controllers.RouterConfig{
		Library:      app.Library,
		Probe:        app.Fetcher,
		Reader:       app.Reader,
		State:        app.State,
		Cache:        app.Cache,
		Database:     app.DB,
		Audit:        app.Audit,
		FetchTimeout: cfg.Fetch.Timeout,
		FetchRetries: cfg.Fetch.Retries,
		Metrics:      app.Metrics,
		Logger:       logger.Named("http"),
		Version:      version,
	}

	// Initialize task queue if enabled
	var (
		taskClient    *tasks.Client
		taskCtxCancel context.CancelFunc
	)
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
			Logger:          logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewFetchURLQueue(app.Library, logger),
			tasks.NewCleanupCacheQueue(app.Cache, logger),
			tasks.NewCleanupAuditEventsQueue(app.Audit, logger),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Only set when enabled so the interface stays nil otherwise
		routerCfg.TaskClient = taskClient
	}

	schedOpts := []scheduler.Option{
		scheduler.WithLogger(logger),
		scheduler.WithAuditCleanup(scheduler.AuditCleanup{
			Cleaner:       app.Audit,
			Schedule:      cfg.Tasks.AuditCleanupSchedule,
			RetentionDays: cfg.Tasks.AuditRetentionDays,
		}),
	}
	if taskClient != nil {
		schedOpts = append(schedOpts, scheduler.WithEnqueuer(taskClient))
	}
	sweeper := scheduler.NewCacheSweepScheduler(app.Cache, cfg.Cache.SweepSchedule, schedOpts...)

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := sweeper.Start(schedCtx); err != nil {
		logger.Warn("cache sweep scheduler disabled", zap.Error(err))
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		sweeper.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		app.Audit.Wait()
	}

	return Serve(router, cfg, logger, onShutdown)
}
