package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/kpihub/backend/internal/application/analytics"
	workspaceapp "github.com/kpihub/backend/internal/application/workspace"
	"github.com/kpihub/backend/internal/domain/department"
	"github.com/kpihub/backend/internal/domain/workspace"
	"github.com/kpihub/backend/internal/infrastructure/auth"
	"github.com/kpihub/backend/internal/infrastructure/cache"
	"github.com/kpihub/backend/internal/infrastructure/config"
	"github.com/kpihub/backend/internal/infrastructure/event"
	"github.com/kpihub/backend/internal/infrastructure/logger"
	"github.com/kpihub/backend/internal/infrastructure/scheduler"
	"github.com/kpihub/backend/internal/infrastructure/store"
	"github.com/kpihub/backend/internal/infrastructure/telemetry"
	"github.com/kpihub/backend/internal/interfaces/http/handler"
	"github.com/kpihub/backend/internal/interfaces/http/middleware"
	"github.com/kpihub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/kpihub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			KPI Hub Backend API
//	@version		1.0
//	@description	Departmental analytics backend - anonymous workspaces, Excel workbooks and KPI computation
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/kpihub/backend
//	@contact.email	support@kpihub.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Workspace token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting KPI Hub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry providers. All of them degrade to no-ops
	// when telemetry is disabled, so the wiring below stays unconditional.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()

	// Tee application logs to the OTEL Collector alongside the configured
	// output when the logs pipeline is up.
	if cfg.Telemetry.Enabled {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&logger.Config{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, logsProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to bridge logger to OTEL, keeping local output", zap.Error(err))
		} else {
			log = bridged
		}
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.Profiler.ApplicationName,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Department registry drives dataset construction, sample data and
	// the metric catalog for every available domain.
	departments := department.Default()

	// Select the workspace store backend. Redis keeps sessions across
	// restarts and replicas; memory is the single-process default.
	var (
		wsStore        workspace.Store
		tokenBlacklist auth.TokenBlacklist
	)
	switch cfg.Store.Backend {
	case "redis":
		redisStore, err := store.NewRedisStore(store.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, departments.EmptyDataset)
		if err != nil {
			log.Fatal("Failed to connect to Redis store", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis store", zap.Error(err))
			}
		}()
		wsStore = redisStore

		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis token blacklist", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
		tokenBlacklist = redisBlacklist
		log.Info("Using Redis workspace store", zap.String("addr", cfg.Redis.Addr()))
	default:
		wsStore = store.NewMemoryStore()
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		log.Info("Using in-memory workspace store")
	}

	// Initialize event bus for workspace lifecycle events
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Business metrics and the event recorder that feeds them
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:             meterProvider.Meter("kpihub/business"),
			Logger:            log,
			WorkspaceProvider: wsStore,
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(ctx, time.Minute)
		defer businessMetrics.Stop()

		recorder := telemetry.NewEventRecorder(businessMetrics)
		eventBus.Subscribe(recorder, recorder.EventTypes()...)
	}

	// Initialize application services
	workspaceService := workspaceapp.NewService(wsStore, departments, log)
	workspaceService.SetEventPublisher(eventBus)
	workspaceService.SetTTLPolicy(cfg.Workspace.DefaultTTL, cfg.Workspace.MaxTTL)
	workspaceService.SetImportErrorCap(cfg.Workbook.ImportErrorCap)

	analyticsService := analyticsapp.NewService(wsStore, departments, log)
	analyticsService.SetResultCache(cache.NewMetricResultCache(cfg.Analytics.ResultCacheTTL))
	if businessMetrics != nil {
		analyticsService.SetComputationRecorder(businessMetrics)
	}

	// Janitor sweeps expired workspace sessions in the background
	janitor := scheduler.NewJanitor(scheduler.JanitorConfig{
		SweepInterval: cfg.Workspace.SweepInterval,
	}, wsStore, log)
	if err := janitor.Start(ctx); err != nil {
		log.Fatal("Failed to start workspace janitor", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := janitor.Stop(stopCtx); err != nil {
			log.Error("Error stopping workspace janitor", zap.Error(err))
		}
	}()

	// JWT service mints anonymous workspace tokens
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize handlers
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, jwtService)
	workspaceHandler.SetTokenBlacklist(tokenBlacklist)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	departmentHandler := handler.NewDepartmentHandler(departments, workspaceService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - OTEL instrumentation (no-op when disabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("kpihub/http"), cfg.Telemetry.Enabled))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit covers workbook uploads
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(wsStore, cfg.Store.Backend))

	// Swagger documentation endpoint, config-gated and optionally
	// IP-restricted in production
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply workspace token authentication to API routes. Workspace
	// creation, department browsing and system endpoints stay public.
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	jwtConfig.SkipPaths = append(jwtConfig.SkipPaths,
		"/api/v1/system/ping",
		"/api/v1/system/info",
	)
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Department catalog (public)
	departmentRoutes := router.NewDomainGroup("departments", "/departments")
	departmentRoutes.GET("", departmentHandler.List)
	departmentRoutes.GET("/:code", departmentHandler.Get)
	departmentRoutes.GET("/:code/template", departmentHandler.Template)

	// Workspace lifecycle and table editing
	workspaceRoutes := router.NewDomainGroup("workspaces", "/workspaces")
	if cfg.HTTP.CreateRateLimitEnabled {
		createLimiter := middleware.NewRateLimiter(cfg.HTTP.CreateRateLimitRequests, cfg.HTTP.CreateRateLimitWindow)
		workspaceRoutes.POST("", middleware.CreateWorkspaceRateLimit(createLimiter), workspaceHandler.Create)
	} else {
		workspaceRoutes.POST("", workspaceHandler.Create)
	}
	meRoutes := workspaceRoutes.Group("workspace-me", "/me")
	meRoutes.GET("", workspaceHandler.Get)
	meRoutes.DELETE("", workspaceHandler.Delete)
	meRoutes.POST("/workbook", workspaceHandler.ImportWorkbook)
	meRoutes.GET("/workbook", workspaceHandler.ExportWorkbook)
	meRoutes.POST("/sample", workspaceHandler.LoadSample)
	meRoutes.GET("/tables", workspaceHandler.Tables)
	meRoutes.DELETE("/tables", workspaceHandler.ResetTables)
	meRoutes.GET("/tables/:table", workspaceHandler.TableRows)
	meRoutes.DELETE("/tables/:table", workspaceHandler.ClearTable)
	meRoutes.POST("/tables/:table/rows", workspaceHandler.AppendRow)
	meRoutes.GET("/quality", workspaceHandler.Quality)

	// Analytics reads over the authenticated workspace dataset
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.GET("/metrics", analyticsHandler.Catalog)
	analyticsRoutes.GET("/metrics/:name", analyticsHandler.Compute)
	analyticsRoutes.GET("/overview", analyticsHandler.Overview)
	analyticsRoutes.GET("/insights", analyticsHandler.Insights)
	analyticsRoutes.GET("/insights/:topic", analyticsHandler.InsightsTopic)
	analyticsRoutes.GET("/risk", analyticsHandler.Risk)

	// System routes with swagger-documented handlers
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(departmentRoutes, workspaceRoutes, analyticsRoutes, systemRoutes).Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(wsStore workspace.Store, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if _, err := wsStore.Count(c.Request.Context()); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"time":   time.Now().Format(time.RFC3339),
				"store":  "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  backend,
		})
	}
}
