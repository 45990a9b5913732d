package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eksdesign/stand-platform/cmd/mainconfig"
	"github.com/eksdesign/stand-platform/internal/api/router"
	"github.com/eksdesign/stand-platform/internal/app/bootstrap"
	"github.com/eksdesign/stand-platform/internal/catalog"
	"github.com/eksdesign/stand-platform/internal/channels/instagram"
	appconfig "github.com/eksdesign/stand-platform/internal/config"
	"github.com/eksdesign/stand-platform/internal/contacts"
	"github.com/eksdesign/stand-platform/internal/http/handlers"
	"github.com/eksdesign/stand-platform/internal/media"
	"github.com/eksdesign/stand-platform/internal/notify"
	"github.com/eksdesign/stand-platform/internal/observability/metrics"
	"github.com/eksdesign/stand-platform/internal/quotes"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting stand-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers intake metrics and Go runtime collectors on a
// private registry and returns the scrape handler.
func setupMetrics() (http.Handler, *metrics.IntakeMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewIntakeMetrics(reg)
}

// buildHandler wires every dependency from cfg. The returned cleanup closes
// database and Redis connections.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	db, err := bootstrap.BuildDatabase(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	if db != nil {
		closers = append(closers, db.Close)
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var (
		sesClient notify.SESAPI
		s3Client  media.S3API
	)
	if cfg.EmailProvider == "ses" || cfg.MediaBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("load AWS config: %w", err)
		}
		if cfg.EmailProvider == "ses" {
			sesClient = mainconfig.NewSESClient(awsCfg, cfg)
		}
		if cfg.MediaBucket != "" {
			s3Client = mainconfig.NewS3Client(awsCfg, cfg)
		}
	}

	metricsHandler, intakeMetrics := setupMetrics()

	contactRepo, quoteRepo := bootstrap.BuildIntakeRepositories(db, logger)
	store := bootstrap.BuildRateLimitStore(cfg, redisClient, logger)
	contactLimiter, quoteLimiter := bootstrap.BuildLimiters(cfg, store)
	notifier := bootstrap.BuildNotifier(cfg, bootstrap.BuildEmailSender(cfg, sesClient, logger), logger)

	routerCfg := &router.Config{
		Logger: logger,
		Contacts: contacts.NewHandler(contacts.HandlerConfig{
			Repo:     contactRepo,
			Limiter:  contactLimiter,
			Notifier: notifier,
			Metrics:  intakeMetrics,
			Logger:   logger,
		}),
		Quotes: quotes.NewHandler(quotes.HandlerConfig{
			Repo:            quoteRepo,
			Limiter:         quoteLimiter,
			Notifier:        notifier,
			Metrics:         intakeMetrics,
			Logger:          logger,
			ReferencePrefix: cfg.ReferencePrefix,
		}),
		Instagram:          instagram.NewHandler(bootstrap.BuildInstagramFeed(cfg, redisClient, logger)),
		Media:              media.NewHandler(bootstrap.BuildMediaUploader(cfg, s3Client, logger), logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if db != nil {
		routerCfg.Catalog = catalog.NewHandler(catalog.NewStore(db.SQL), logger)
		routerCfg.AdminDashboard = handlers.NewAdminDashboardHandler(db.SQL, logger)
	} else {
		logger.Warn("catalog and admin dashboard disabled without a database")
	}
	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set; admin routes will reject every request")
	}

	return router.New(routerCfg), cleanup, nil
}
