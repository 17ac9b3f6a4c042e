package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/teamiq/internal/adapters/cache"
	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/adapters/http/api"
	"github.com/okian/teamiq/internal/adapters/http/swagger"
	app "github.com/okian/teamiq/internal/app"
	"github.com/okian/teamiq/internal/config"
	"github.com/okian/teamiq/internal/domain/readiness"
	"github.com/okian/teamiq/internal/domain/scenario"
	"github.com/okian/teamiq/pkg/logger"
	"github.com/okian/teamiq/pkg/metrics"
	"github.com/okian/teamiq/pkg/tracing"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
	serviceName               = "teamiq"
)

func main() {
	os.Exit(run())
}

func run() int {
	// We collect our own system metrics instead of the default collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	shutdownTracing, err := tracing.Setup(ctx, serviceName,
		tracing.WithEnabled(cfg.TracingEndpoint != ""),
		tracing.WithEndpoint(cfg.TracingEndpoint),
		tracing.WithSampleRatio(cfg.TracingSampleRatio),
	)
	if err != nil {
		log.Error(ctx, "failed to set up tracing", logger.Error(err))
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn(ctx, "tracing shutdown failed", logger.Error(err))
		}
	}()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logger.String("path", cfg.CatalogPath), logger.Error(err))
		return 1
	}

	svc := app.New(serviceOptions(cfg, cat, log)...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return 1
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(ctx, "service stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	apiServer, err := api.NewServer(svc, svc, api.WithMaxBodyBytes(cfg.MaxBodyBytes))
	if err != nil {
		log.Error(ctx, "failed to build API", logger.Error(err))
		return 1
	}
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		return 1
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return 0
}

// serviceOptions maps configuration onto service options.
func serviceOptions(cfg *config.Config, cat *catalog.Catalog, log logger.Logger) []app.Option {
	assumptions := scenario.DefaultAssumptions()
	assumptions.FlowThrough = cfg.Scenario.FlowThrough
	assumptions.ValueMultiple = cfg.Scenario.ValueMultiple
	assumptions.BorrowingRate = cfg.Scenario.BorrowingRate
	assumptions.CostPerHead = cfg.Scenario.CostPerHead
	assumptions.EBITDARatio = cfg.Scenario.EBITDARatio

	return []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithJobRetention(cfg.JobRetention),
		app.WithJobTimeout(cfg.JobTimeout),
		app.WithCatalog(cat),
		app.WithCacheConfig(cache.Config{
			Backend:       cfg.Cache.Backend,
			Size:          cfg.Cache.Size,
			TTL:           cfg.Cache.TTL,
			KeyPrefix:     cfg.Cache.KeyPrefix,
			RedisAddr:     cfg.Cache.RedisAddr,
			RedisPassword: cfg.Cache.RedisPassword,
			RedisDB:       cfg.Cache.RedisDB,
		}),
		app.WithReadinessOptions(
			readiness.WithInterestBonus(cfg.Readiness.InterestBonus),
			readiness.WithInterestCap(cfg.Readiness.InterestBonusCap),
			readiness.WithMinInvolvement(cfg.Readiness.MinInvolvement),
			readiness.WithReadyCoverage(cfg.Readiness.ReadyCoverage),
		),
		app.WithDevelopmentLimit(cfg.Readiness.DevelopmentLimit),
		app.WithAssumptions(assumptions),
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes queue and job gauges from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if capacity, ok := stats["queueCapacity"].(int); ok {
		metrics.UpdateQueueCapacity(capacity)
	}
	if workers, ok := stats["workers"].(int); ok {
		metrics.UpdateWorkerCount(workers)
	}
}
