// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/querystack/querystack/internal/admin"
	"github.com/querystack/querystack/internal/answer"
	"github.com/querystack/querystack/internal/auth"
	"github.com/querystack/querystack/internal/billing"
	"github.com/querystack/querystack/internal/collection"
	"github.com/querystack/querystack/internal/config"
	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/doc"
	"github.com/querystack/querystack/internal/health"
	"github.com/querystack/querystack/internal/interaction"
	"github.com/querystack/querystack/internal/jobs"
	"github.com/querystack/querystack/internal/middleware"
	"github.com/querystack/querystack/internal/question"
	"github.com/querystack/querystack/internal/search"
	"github.com/querystack/querystack/internal/server"
	"github.com/querystack/querystack/internal/tag"
	"github.com/querystack/querystack/internal/user"
	"github.com/querystack/querystack/internal/vote"
	"github.com/querystack/querystack/internal/worker"
)

const (
	drainDelay     = 5 * time.Second
	tokenPurgeTick = time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	index, err := search.Open(cfg.Search.IndexPath)
	if err != nil {
		return err
	}
	logger.Info("search index opened", "path", cfg.Search.IndexPath)

	pool := worker.NewPool(
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		logger,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	interactionSvc := interaction.NewService(db.DB)

	tagSvc := tag.NewService(tag.NewRepository(db.DB))
	tagHandler := tag.NewHandler(tagSvc)

	questionSvc := question.NewService(db.DB, interactionSvc, index, pool, logger)
	questionHandler := question.NewHandler(questionSvc)

	answerSvc := answer.NewService(db.DB, interactionSvc, logger)
	answerHandler := answer.NewHandler(answerSvc)

	voteSvc := vote.NewService(db.DB, interactionSvc, logger)
	voteHandler := vote.NewHandler(voteSvc)

	collectionSvc := collection.NewService(db.DB, interactionSvc, logger)
	collectionHandler := collection.NewHandler(collectionSvc)

	docSvc := doc.NewService(db.DB, interactionSvc, index, pool, logger)
	docHandler := doc.NewHandler(docSvc)

	searchHandler := search.NewHandler(index, interactionSvc, pool)

	stripeClient := billing.NewStripeClient(cfg.Stripe.SecretKey)
	billingSvc := billing.NewService(
		db.DB,
		stripeClient,
		cfg.Stripe,
		cfg.App.BaseURL,
		logger,
	)
	billingHandler := billing.NewHandler(billingSvc, userSvc)
	webhookHandler := billing.NewWebhookHandler(
		billingSvc,
		cfg.Stripe.WebhookSecret,
		logger,
	)

	jobsHandler := jobs.NewHandler(jobs.NewClient(cfg.Jobs))

	healthHandler := health.NewHandler(db, redis, index)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Stats:      admin.NewStatsRepository(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	// Stripe authenticates webhooks with its signature header, not a
	// bearer token, so this route stays outside the authenticator.
	router.Post("/webhooks/stripe", webhookHandler.HandleWebhook)

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	requirePro := middleware.RequirePro(billingSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterRoutes(r, authenticator)
		tagHandler.RegisterRoutes(r)
		questionHandler.RegisterRoutes(r, authenticator, optionalAuth)
		answerHandler.RegisterRoutes(r, authenticator)
		voteHandler.RegisterRoutes(r, authenticator)
		collectionHandler.RegisterRoutes(r, authenticator)
		docHandler.RegisterRoutes(r, authenticator, optionalAuth)
		searchHandler.RegisterRoutes(r, optionalAuth)
		billingHandler.RegisterRoutes(r, authenticator)
		jobsHandler.RegisterRoutes(r, authenticator, requirePro)

		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	go purgeExpiredTokens(ctx, authSvc, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	pool.Close()

	if err := index.Close(); err != nil {
		logger.Error("search index close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// purgeExpiredTokens deletes refresh tokens that have been expired long
// enough to be useless for reuse detection.
func purgeExpiredTokens(
	ctx context.Context,
	authSvc *auth.Service,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(tokenPurgeTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := authSvc.PurgeExpiredTokens(ctx)
			if err != nil {
				logger.Error("token purge failed", "error", err)
				continue
			}
			if purged > 0 {
				logger.Info("expired refresh tokens purged", "count", purged)
			}
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
