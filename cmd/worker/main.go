package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/haven-app/haven/internal/app"
	"github.com/haven-app/haven/internal/auth"
	jobmetrics "github.com/haven-app/haven/internal/jobs"
	"github.com/haven-app/haven/internal/platform/db"
	"github.com/haven-app/haven/internal/platform/sms"
	"github.com/haven-app/haven/jobs"
)

// instrumented wraps a task handler with run/duration metrics.
func instrumented(metrics *jobmetrics.Metrics, name string, fn asynq.HandlerFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		return metrics.Track(name).End(fn(ctx, t))
	}
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	sender := sms.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	smsJob := jobs.NewSendSMSJob(sender, logger)
	purgeJob := jobs.NewSessionsPurgeJob(auth.NewSessionRepository(pool), logger)
	metrics := jobmetrics.NewMetrics(nil)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendSMS, Handler: instrumented(metrics, jobs.TaskTypeSendSMS, smsJob.Handle)},
			{Type: jobs.TaskTypeSessionsPurge, Handler: instrumented(metrics, jobs.TaskTypeSessionsPurge, purgeJob.Handle)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 3 * * *", Task: jobs.NewSessionsPurgeTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
