package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/application/planting"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/shared/strategy"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/cache"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/config"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/event"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/logger"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/persistence"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/reference"
	infraStrategy "github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/strategy"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/infrastructure/telemetry"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/handler"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/middleware"
	"github.com/IsmaelMartinez/community-allotment-sub000/internal/interfaces/http/router"
)

//	@title			Allotment Planner API
//	@version		1.0
//	@description	Crop rotation, companion planting and auto-fill for allotment plots

//	@host		localhost:8080
//	@BasePath	/api/v1

const (
	appVersion      = "1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Log export needs a logger of its own before the final logger can tee into it
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log, err := logger.New(logCfg, loggerProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync(log)

	log.Info("Starting allotment planner",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Telemetry.ProfilingEnabled,
		ServerAddress:        cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:      cfg.Telemetry.ProfilingApplicationName,
		BasicAuthUser:        cfg.Telemetry.ProfilingBasicAuthUser,
		BasicAuthPassword:    cfg.Telemetry.ProfilingBasicAuthPassword,
		ProfileTypes:         cfg.Telemetry.ProfilingTypes,
		MutexProfileFraction: cfg.Telemetry.ProfilingMutexFraction,
		BlockProfileRate:     cfg.Telemetry.ProfilingBlockRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	gardenMetrics, err := telemetry.NewGardenMetrics(meterProvider.Meter(telemetry.GardenMeterName))
	if err != nil {
		log.Fatal("Failed to create garden metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver()))

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        telemetry.DBSystemForDriver(cfg.Database.Driver),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema auto-migrated")
	}

	// Repositories, with rotation history read through the cache
	plotRepo := persistence.NewGormPlotRepository(db.DB)
	historyCache, err := cache.NewHistoryCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to create rotation history cache", zap.Error(err))
	}
	defer func() {
		if err := historyCache.Close(); err != nil {
			log.Error("Error closing history cache", zap.Error(err))
		}
	}()
	historyRepo := cache.NewCachedHistoryRepository(
		persistence.NewGormRotationHistoryRepository(db.DB), historyCache, cfg.Redis.HistoryTTL, log)

	// Event bus: history changes invalidate the cache, every event is audited
	eventBus := event.NewInMemoryEventBus(log)
	invalidation := event.NewHistoryCacheInvalidationHandler(historyRepo)
	audit := event.NewAuditLogHandler(log.Named("audit"))
	eventBus.Subscribe(invalidation)
	eventBus.Subscribe(audit)
	log.Info("Event handlers registered",
		zap.Strings("history_cache_invalidation_events", invalidation.EventTypes()),
	)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Engine
	catalog, err := loadCatalog(cfg.Planting)
	if err != nil {
		log.Fatal("Failed to load vegetable catalog", zap.Error(err))
	}
	strategies, err := infraStrategy.NewRegistryWithDefaults(cfg.Planting.DefaultStrategy)
	if err != nil {
		log.Fatal("Failed to build strategy registry", zap.Error(err))
	}
	engine := garden.NewAutoFillEngine(catalog,
		garden.WithPicker(newPicker(cfg.Planting.RandomSeed)),
		garden.WithStrategyResolver(strategies),
	)
	log.Info("Planting engine ready",
		zap.Int("vegetables", len(catalog.ListAllVegetables())),
		zap.String("default_strategy", strategies.GetDefault(strategy.StrategyTypePlanting)),
		zap.Bool("seeded", cfg.Planting.RandomSeed != 0),
	)

	serviceOpts := []planting.Option{
		planting.WithMetrics(gardenMetrics),
		planting.WithLogger(log),
		planting.WithDefaultDifficultyFilter(garden.DifficultyFilter(cfg.Planting.DefaultDifficultyFilter)),
		planting.WithTransactionScope(persistence.NewGormTransactionScope(db.DB)),
	}
	referenceService := planting.NewReferenceService(catalog, strategies)
	plotService := planting.NewPlotService(plotRepo, historyRepo, catalog, engine, eventBus, serviceOpts...)
	advisorService := planting.NewAdvisorService(plotRepo, historyRepo, catalog, engine, strategies, eventBus, serviceOpts...)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	httpEngine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := httpEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Server span per request, then request attributes and error status
	// 3. Metrics - Request count, latency, in-flight
	// 4. Logger and Recovery
	// 5. Security headers, CORS, body limit
	httpEngine.Use(middleware.RequestID())
	httpEngine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	httpEngine.Use(middleware.SpanEnricher())
	httpEngine.Use(middleware.SpanErrorMarker())
	httpEngine.Use(middleware.HTTPMetrics(meterProvider))
	httpEngine.Use(logger.GinMiddleware(log))
	httpEngine.Use(logger.Recovery(log))
	httpEngine.Use(middleware.Secure())
	httpEngine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	httpEngine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	r := router.NewRouter(httpEngine, router.WithAPIVersion("v1"))
	router.RegisterPlannerRoutes(r, router.Handlers{
		Reference: handler.NewReferenceHandler(referenceService),
		Plots:     handler.NewPlotHandler(plotService),
		Advisor:   handler.NewAdvisorHandler(advisorService),
		System:    handler.NewSystemHandler(cfg.App.Name, appVersion, db, historyCache),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        httpEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// loadCatalog reads the vegetable catalog from the configured file, falling
// back to the embedded one
func loadCatalog(cfg config.PlantingConfig) (*reference.Catalog, error) {
	if cfg.CatalogPath != "" {
		return reference.LoadFromFile(cfg.CatalogPath)
	}
	return reference.LoadEmbedded()
}

// newPicker returns a reproducible picker for a non-zero seed
func newPicker(seed uint64) garden.Picker {
	if seed != 0 {
		return garden.NewSeededPicker(seed)
	}
	return garden.NewRandomPicker()
}
