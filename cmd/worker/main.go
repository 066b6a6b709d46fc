package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/courierdesk/courierdesk/internal/app"
	"github.com/courierdesk/courierdesk/internal/audit"
	jobmetrics "github.com/courierdesk/courierdesk/internal/jobs"
	"github.com/courierdesk/courierdesk/internal/platform/db"
	"github.com/courierdesk/courierdesk/internal/shared"
	"github.com/courierdesk/courierdesk/jobs"
)

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

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)
	deniedJob := jobs.NewAccessDeniedJob(shared.NewAuditLogger(pool), logger, metrics)
	purgeJob := jobs.NewAuditPurgeJob(audit.NewPurger(pool), logger, metrics)

	var cron []jobs.CronRegistration
	if cfg.AuditRetentionDays > 0 && cfg.AuditPurgeCron != "" {
		purgeTask, err := jobs.NewAuditPurgeTask(cfg.AuditRetentionDays)
		if err != nil {
			logger.Error("build purge task", slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{Spec: cfg.AuditPurgeCron, Task: purgeTask})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   cfg.Redis().Asynq(),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAccessDenied, Handler: deniedJob.Handle},
			{Type: jobs.TaskAuditPurge, Handler: purgeJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.Int("concurrency", cfg.WorkerConcurrency))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
