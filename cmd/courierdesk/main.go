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

	"github.com/courierdesk/courierdesk/cmd/courierdesk/cli"
	"github.com/courierdesk/courierdesk/internal/actors"
	"github.com/courierdesk/courierdesk/internal/app"
	"github.com/courierdesk/courierdesk/internal/audit"
	audithttp "github.com/courierdesk/courierdesk/internal/audit/http"
	"github.com/courierdesk/courierdesk/internal/auth"
	"github.com/courierdesk/courierdesk/internal/dashboard"
	"github.com/courierdesk/courierdesk/internal/fleet"
	"github.com/courierdesk/courierdesk/internal/observability"
	"github.com/courierdesk/courierdesk/internal/orders"
	"github.com/courierdesk/courierdesk/internal/platform/cache"
	"github.com/courierdesk/courierdesk/internal/platform/db"
	"github.com/courierdesk/courierdesk/internal/rbac"
	"github.com/courierdesk/courierdesk/internal/shared"
	"github.com/courierdesk/courierdesk/internal/users"
	"github.com/courierdesk/courierdesk/jobs"
)

func main() {
	if len(os.Args) > 1 {
		os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
	}

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

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	tokens, err := auth.NewTokenVerifier(auth.TokenConfig{
		Secret:   []byte(cfg.TokenSecret),
		Issuer:   cfg.TokenIssuer,
		Audience: cfg.TokenAudience,
	})
	if err != nil {
		logger.Error("init token verifier", slog.Any("error", err))
		os.Exit(1)
	}

	actorRepo := actors.NewRepository(dbpool)
	actorCache := actors.NewCache(redisClient, cfg.ActorCacheTTL)
	actorService := actors.NewService(actorRepo, actorCache, logger)

	redisOpts := cfg.Redis().Asynq()
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	actorService.Observer = metrics

	rbacMiddleware := rbac.Middleware{
		Actors:   actorService,
		Identity: auth.Identifier{Tokens: tokens},
		Logger:   logger,
		Metrics:  metrics,
		Audit:    jobClient,
	}

	authHandler := auth.NewHandler(logger, tokens, actorService, sessionManager, csrfManager)

	fleetService := fleet.NewService(fleet.NewRepository(dbpool), logger)
	fleetHandler := fleet.NewHandler(logger, fleetService, rbacMiddleware)

	orderService := orders.NewService(orders.NewRepository(dbpool), fleetService, logger)
	ordersHandler := orders.NewHandler(logger, orderService, rbacMiddleware)
	trackingHandler := orders.NewTrackingHandler(orderService)

	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(dbpool), actorService, logger), rbacMiddleware)
	auditHandler := audithttp.NewHandler(logger, audit.NewService(audit.NewRepository(dbpool)), rbacMiddleware)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		DashboardHandler:   dashboard.NewHandler(rbacMiddleware),
		OrdersHandler:      ordersHandler,
		TrackingHandler:    trackingHandler,
		FleetHandler:       fleetHandler,
		AuditHandler:       auditHandler,
		UsersHandler:       usersHandler,
		PermissionsHandler: rbac.NewPermissionsHandler(rbacMiddleware),
		JobHandler:         jobHandler,
		Metrics:            metrics,
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
