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
	reportapp "github.com/learnhub/backoffice/internal/application/report"
	"github.com/learnhub/backoffice/internal/infrastructure/auth"
	"github.com/learnhub/backoffice/internal/infrastructure/cache"
	"github.com/learnhub/backoffice/internal/infrastructure/config"
	"github.com/learnhub/backoffice/internal/infrastructure/export"
	"github.com/learnhub/backoffice/internal/infrastructure/logger"
	"github.com/learnhub/backoffice/internal/infrastructure/persistence"
	"github.com/learnhub/backoffice/internal/infrastructure/telemetry"
	"github.com/learnhub/backoffice/internal/interfaces/http/handler"
	"github.com/learnhub/backoffice/internal/interfaces/http/middleware"
	"github.com/learnhub/backoffice/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			LearnHub Back Office Reporting API
//	@version		1.0
//	@description	Sales and performance reports, exports and dashboard metrics for the LearnHub admin and student consoles

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting LearnHub reporting service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQL(!cfg.IsProduction()),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	metrics := telemetry.NewReportMetrics()
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}

	loc, err := cfg.Report.Location()
	if err != nil {
		log.Fatal("Invalid report timezone", zap.Error(err))
	}

	// An empty redis host leaves the dashboard uncached.
	var metricsCache reportapp.MetricsCache
	if cfg.Redis.Host != "" {
		dashboardCache, closeCache, err := cache.NewDashboardCacheFromConfig(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Report.DashboardCacheTTL, cache.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize dashboard cache", zap.Error(err))
		}
		defer func() {
			if err := closeCache(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		metricsCache = dashboardCache
	}

	salesRepo := persistence.NewGormSalesReportRepository(db.DB)
	studentRepo := persistence.NewGormStudentReportRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	settings := reportapp.Settings{
		Location:        loc,
		DefaultPageSize: cfg.Report.DefaultPageSize,
	}
	reportService := reportapp.NewReportService(salesRepo, studentRepo, settings, log, reportapp.WithMetrics(metrics))
	renderer := export.NewRenderer(export.Config{
		CurrencySymbol: cfg.Report.CurrencySymbol,
		Location:       loc,
		PDF: export.PDFOptions{
			FontPath: cfg.Report.PDFFontPath,
			CoreFont: cfg.Report.PDFCoreFont,
			Compress: true,
		},
	})
	exportService := reportapp.NewExportService(reportService, renderer, log, reportapp.WithMetrics(metrics))
	dashboardService := reportapp.NewDashboardService(dashboardRepo, metricsCache, loc, log, reportapp.WithMetrics(metrics))

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register request validators", zap.Error(err))
	}

	engine, err := router.NewEngine(router.Dependencies{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tracing: middleware.TracingConfig{
			Enabled:     cfg.Telemetry.Enabled,
			ServiceName: cfg.Telemetry.ServiceName,
		},
		Metrics:       metrics,
		Tokens:        auth.NewJWTService(cfg.JWT),
		Reports:       handler.NewReportHandler(reportService, exportService, cfg.Report.MaxPageSize),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		System:        handler.NewSystemHandler(db, version),
		ExportLimiter: middleware.NewRateLimiter(cfg.Report.ExportRatePerMinute, cfg.Report.ExportBurst),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
