package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fieldsales/backoffice/internal/app"
	jobmetrics "github.com/fieldsales/backoffice/internal/jobs"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/platform/cache"
	"github.com/fieldsales/backoffice/jobs"
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

	api, err := apiclient.NewFactory(apiclient.Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		Logger:     logger,
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		logger.Error("init api client", slog.Any("error", err))
		os.Exit(1)
	}

	store := jobs.NewExportStore(redisClient, cfg.ExportTTL)
	exportJob := jobs.NewExportJob(store, api, logger, jobmetrics.NewMetrics(prometheus.DefaultRegisterer))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   cache.QueueOpts(cfg.RedisAddr),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportExport, Handler: exportJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
