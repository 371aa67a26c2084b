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

	"github.com/fieldsales/backoffice/internal/admin/announcements"
	"github.com/fieldsales/backoffice/internal/admin/attendance"
	"github.com/fieldsales/backoffice/internal/admin/careers"
	"github.com/fieldsales/backoffice/internal/admin/customers"
	"github.com/fieldsales/backoffice/internal/admin/hookcategories"
	"github.com/fieldsales/backoffice/internal/admin/partners"
	"github.com/fieldsales/backoffice/internal/admin/returns"
	"github.com/fieldsales/backoffice/internal/admin/shipments"
	"github.com/fieldsales/backoffice/internal/admin/unbilled"
	"github.com/fieldsales/backoffice/internal/app"
	"github.com/fieldsales/backoffice/internal/auth"
	"github.com/fieldsales/backoffice/internal/field/hooks"
	"github.com/fieldsales/backoffice/internal/field/reorders"
	"github.com/fieldsales/backoffice/internal/field/visits"
	"github.com/fieldsales/backoffice/internal/home"
	"github.com/fieldsales/backoffice/internal/observability"
	"github.com/fieldsales/backoffice/internal/picker"
	pickerhttp "github.com/fieldsales/backoffice/internal/picker/http"
	"github.com/fieldsales/backoffice/internal/platform/apiclient"
	"github.com/fieldsales/backoffice/internal/platform/cache"
	"github.com/fieldsales/backoffice/internal/rbac"
	"github.com/fieldsales/backoffice/internal/screen"
	"github.com/fieldsales/backoffice/internal/shared"
	"github.com/fieldsales/backoffice/internal/view"
	"github.com/fieldsales/backoffice/jobs"
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

	metrics := observability.NewMetrics()
	api, err := apiclient.NewFactory(apiclient.Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		Logger:     logger,
		Registerer: metrics.Registerer(),
	})
	if err != nil {
		logger.Error("init api client", slog.Any("error", err))
		os.Exit(1)
	}

	sessionManager := shared.NewSessionManager(redisClient, "backoffice_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	base := screen.NewBase(logger, templates, csrfManager, api)

	registry := picker.NewRegistry(picker.Options{Debounce: cfg.PickerDebounce}, cfg.PickerIdleTTL)
	go registry.Run(ctx, time.Minute)
	pickerHandler := pickerhttp.NewHandler(base, registry)

	queueOpts := cache.QueueOpts(cfg.RedisAddr)
	queue := jobs.NewClient(queueOpts)
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(queueOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	exports := jobs.NewExports(jobs.NewExportStore(redisClient, cfg.ExportTTL), queue, metrics)

	authHandler := auth.NewHandler(base, auth.NewService(auth.NewRepository(api)), sessionManager, registry)

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		SessionManager:        sessionManager,
		CSRFManager:           csrfManager,
		RBACMiddleware:        rbac.Middleware{Logger: logger},
		Metrics:               metrics,
		AuthHandler:           authHandler,
		HomeHandler:           home.NewHandler(base),
		PickerHandler:         pickerHandler,
		JobHandler:            jobs.NewHandler(base, inspector, exports),
		AnnouncementsHandler:  announcements.NewHandler(base),
		CareersHandler:        careers.NewHandler(base),
		CustomersHandler:      customers.NewHandler(base),
		PartnersHandler:       partners.NewHandler(base),
		HookCategoriesHandler: hookcategories.NewHandler(base),
		ReturnsHandler:        returns.NewHandler(base),
		ShipmentsHandler:      shipments.NewHandler(base),
		AttendanceHandler:     attendance.NewHandler(base, exports),
		UnbilledHandler:       unbilled.NewHandler(base, exports),
		VisitsHandler:         visits.NewHandler(base, pickerHandler),
		ReordersHandler:       reorders.NewHandler(base, pickerHandler),
		HooksHandler:          hooks.NewHandler(base, pickerHandler),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIBaseURL))
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
