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

	"github.com/sevadhara/console/internal/app"
	"github.com/sevadhara/console/internal/auth"
	"github.com/sevadhara/console/internal/catalog"
	"github.com/sevadhara/console/internal/dashboard"
	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/observability"
	"github.com/sevadhara/console/internal/platform/cache"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
	"github.com/sevadhara/console/internal/view"
	"github.com/sevadhara/console/jobs"
	"github.com/sevadhara/console/report"
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

	sessionManager := shared.NewSessionManager(redisClient, "sevadhara_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	api := upstream.NewClient(cfg.APIBaseURL,
		upstream.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		upstream.WithMetrics(upstream.NewMetrics(metrics.Registerer())),
	)

	authHandler := auth.NewHandler(logger, auth.NewService(api), templates, sessionManager, csrfManager)

	dashboardService := dashboard.NewService(api, dashboard.NewCache(redisClient, cfg.DashboardCacheTTL), logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, templates, csrfManager)

	reportClient := report.NewClient(cfg.GotenbergURL)
	if err := reportClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg unreachable, PDF output will fail until it is up", slog.Any("error", err))
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	var queue notify.Enqueuer
	if cfg.NotifyAsync {
		jobClient := jobs.NewClient(redisOpts)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		queue = jobClient
	}
	dispatcher := notify.NewDispatcher(notify.NewClient(api), queue, logger)

	screens, err := catalog.New(catalog.Deps{
		Logger:      logger,
		API:         api,
		PDF:         reportClient,
		Dispatcher:  dispatcher,
		Dashboard:   dashboardService,
		OrgName:     cfg.OrgName,
		Concurrency: cfg.SummaryConcurrency,
	})
	if err != nil {
		logger.Error("build screens", slog.Any("error", err))
		os.Exit(1)
	}
	exporter, err := export.NewExporter(reportClient)
	if err != nil {
		logger.Error("init exporter", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		Catalog:          screens,
		Exporter:         exporter,
		ReportHandler:    report.NewHandler(reportClient, logger),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", api.BaseURL()))
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
