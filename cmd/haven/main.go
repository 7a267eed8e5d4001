package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/haven-app/haven/internal/alerts"
	"github.com/haven-app/haven/internal/app"
	"github.com/haven-app/haven/internal/auth"
	"github.com/haven-app/haven/internal/cart"
	"github.com/haven-app/haven/internal/catalog"
	"github.com/haven-app/haven/internal/guardians"
	"github.com/haven-app/haven/internal/observability"
	"github.com/haven-app/haven/internal/platform/cache"
	"github.com/haven-app/haven/internal/platform/db"
	"github.com/haven-app/haven/internal/platform/sms"
	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
	"github.com/haven-app/haven/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "haven_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo)
	usersHandler := users.NewHandler(logger, userService)

	sessionRepo := auth.NewSessionRepository(dbpool)
	authService := auth.NewService(userRepo, sessionRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	guardianRepo := guardians.NewRepository(dbpool)
	guardianService := guardians.NewService(guardianRepo, jobs.NewGuardianNotifier(jobClient), logger)
	guardianHandler := guardians.NewHandler(logger, guardianService, userService)

	metrics := observability.NewMetrics()

	sender := sms.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	dispatcher := alerts.NewDispatcher(sender, guardianRepo, metrics, logger)
	cooldown := alerts.NewCooldown(redisClient, cfg.AlertCooldown)
	alertHandler := alerts.NewHandler(logger, dispatcher, userService, cooldown)

	catalogService := catalog.NewService(catalog.NewRepository(dbpool))
	catalogHandler := catalog.NewHandler(logger, catalogService)
	cartHandler := cart.NewHandler(logger, catalogService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		AuthHandler:     authHandler,
		UsersHandler:    usersHandler,
		GuardianHandler: guardianHandler,
		AlertHandler:    alertHandler,
		CatalogHandler:  catalogHandler,
		CartHandler:     cartHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
