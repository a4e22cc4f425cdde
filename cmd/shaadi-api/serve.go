package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paradox1612/shaadi-timeline/internal/auth"
	"github.com/paradox1612/shaadi-timeline/internal/config"
	"github.com/paradox1612/shaadi-timeline/internal/database"
	"github.com/paradox1612/shaadi-timeline/internal/http/handler"
	"github.com/paradox1612/shaadi-timeline/internal/observability/logger"
	"github.com/paradox1612/shaadi-timeline/internal/permissions"
	"github.com/paradox1612/shaadi-timeline/internal/ratelimit"
	"github.com/paradox1612/shaadi-timeline/internal/repo"
	"github.com/paradox1612/shaadi-timeline/internal/service"
	"github.com/paradox1612/shaadi-timeline/internal/telemetry"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the Shaadi Timeline HTTP server with all middlewares and observability`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.OTELServiceName, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	log.Info(ctx, "starting shaadi api",
		zap.String("service", cfg.OTELServiceName),
	)

	log.Info(ctx, "running database migrations")
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info(ctx, "migrations completed successfully")

	// Telemetry is strictly opt-in
	var tracerProvider *sdktrace.TracerProvider
	var meterProvider *sdkmetric.MeterProvider
	var metrics *telemetry.Metrics

	if cfg.TelemetryEnabled() {
		log.Info(ctx, "initializing telemetry", zap.String("endpoint", cfg.OTELExporterEndpoint))

		tp, err := telemetry.InitTracer(ctx, cfg.OTELServiceName, cfg.OTELExporterEndpoint, cfg.OTELSamplingRatio)
		if err != nil {
			log.Warn(ctx, "failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			tracerProvider = tp
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
					log.Error(shutdownCtx, "failed to shutdown tracer provider", zap.Error(err))
				}
			}()
		}

		mp, m, err := telemetry.InitMetrics(ctx, cfg.OTELServiceName, cfg.OTELExporterEndpoint)
		if err != nil {
			log.Warn(ctx, "failed to initialize metrics, continuing without metrics", zap.Error(err))
		} else {
			meterProvider = mp
			metrics = m
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := meterProvider.Shutdown(shutdownCtx); err != nil {
					log.Error(shutdownCtx, "failed to shutdown meter provider", zap.Error(err))
				}
			}()
		}

		log.Info(ctx, "telemetry initialized", zap.Bool("tracing", tracerProvider != nil), zap.Bool("metrics", metrics != nil))
	} else {
		log.Info(ctx, "telemetry disabled (opt-in only or missing endpoint)")
	}

	log.Info(ctx, "connecting to database")
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Info(ctx, "database connected")

	log.Info(ctx, "connecting to redis")
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info(ctx, "redis connected")

	// JWT_HS256_SECRET must be Base64-encoded
	log.Info(ctx, "initializing JWT authentication")
	secretBytes, err := base64.StdEncoding.DecodeString(cfg.JWTHS256Secret)
	if err != nil {
		return fmt.Errorf("JWT_HS256_SECRET must be valid Base64-encoded: %w", err)
	}
	if len(secretBytes) < 32 {
		return fmt.Errorf("JWT_HS256_SECRET decoded bytes must be at least 32 bytes (256 bits), got %d bytes", len(secretBytes))
	}

	allowedIssuers := cfg.GetAllowedIssuers()

	keyStore := auth.NewKeyStore()
	for _, issuer := range allowedIssuers {
		keyStore.LoadHS256Key(issuer, "v1", secretBytes)
	}

	clockSkew := time.Duration(cfg.JWTClockSkewSeconds) * time.Second

	resolver := auth.NewKeyResolver(allowedIssuers, []string{cfg.JWTAudience})
	for _, issuer := range allowedIssuers {
		resolver.RegisterValidator(issuer, auth.NewHS256Validator(keyStore, issuer, clockSkew))
	}

	log.Info(ctx, "JWT authentication initialized",
		zap.Strings("allowed_issuers", allowedIssuers),
		zap.Int("clock_skew_seconds", cfg.JWTClockSkewSeconds),
	)

	// Repositories
	weddingRepo := repo.NewWeddingRepository(pool)
	policyRepo := repo.NewPolicyRepository(pool)
	taskRepo := repo.NewTaskRepository(pool)
	vendorRepo := repo.NewVendorRepository(pool)
	quoteRepo := repo.NewQuoteRepository(pool)
	paymentRepo := repo.NewPaymentRepository(pool)
	timelineRepo := repo.NewTimelineRepository(pool)
	auditRepo := repo.NewAuditRepo(pool)
	idempotencyRepo := repo.NewIdempotencyRepo(pool)

	// Permission engine resolves effective grants per decision
	engine := permissions.NewEngine(policyRepo, log)

	// Services
	taskService := service.NewTaskService(engine, taskRepo, auditRepo, weddingRepo, log)
	policyService := service.NewPolicyService(engine, auditRepo, weddingRepo, log)
	vendorService := service.NewVendorService(engine, vendorRepo, auditRepo, weddingRepo, log)
	quoteService := service.NewQuoteService(engine, quoteRepo, weddingRepo, log)
	paymentService := service.NewPaymentService(engine, paymentRepo, auditRepo, weddingRepo, log)
	timelineService := service.NewTimelineService(timelineRepo, auditRepo, weddingRepo, log)

	// Handlers
	taskHandler := handler.NewTaskHandler(taskService)
	policyHandler := handler.NewPolicyHandler(policyService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	timelineHandler := handler.NewTimelineHandler(timelineService)

	// Rate limiter
	var rateLimitCounter metric.Int64Counter
	if metrics != nil {
		rateLimitCounter = metrics.RateLimitRejections
	}
	rateLimiter := ratelimit.NewRedisRateLimiter(redisClient, rateLimitCounter)

	r := buildRouter(RouterDeps{
		Cfg:             cfg,
		Log:             log,
		Resolver:        resolver,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         metrics,
		Pool:            pool,
		TaskHandler:     taskHandler,
		PolicyHandler:   policyHandler,
		VendorHandler:   vendorHandler,
		QuoteHandler:    quoteHandler,
		PaymentHandler:  paymentHandler,
		TimelineHandler: timelineHandler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info(ctx, "starting http server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info(ctx, "shutdown signal received, starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown error", zap.Error(err))
	}

	log.Info(shutdownCtx, "shutdown complete")
	return nil
}
