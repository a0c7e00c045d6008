package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/karsei/sample-auth-service/internal/api/http"
	"github.com/karsei/sample-auth-service/internal/api/http/handlers"
	"github.com/karsei/sample-auth-service/internal/auth"
	"github.com/karsei/sample-auth-service/internal/config"
	"github.com/karsei/sample-auth-service/internal/events"
	"github.com/karsei/sample-auth-service/internal/observability"
	"github.com/karsei/sample-auth-service/internal/persistence"
	"github.com/karsei/sample-auth-service/internal/repository"
	"github.com/karsei/sample-auth-service/internal/service"
	"github.com/karsei/sample-auth-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.ApplyMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.Pool)
	if err := service.SeedAccounts(ctx, userRepo, cfg.Auth.BcryptCost, cfg.Auth.SeedUsers, logger); err != nil {
		logger.Fatal("failed to seed accounts", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	signingKey := auth.NewSigningKey(cfg.Auth.JWTSecret)
	tokenProvider := auth.NewTokenProvider(signingKey, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL(), logger, metrics)

	userService := service.NewUserService(userRepo, service.NewRedisIdentityCache(redis.Client), cfg.Auth.UserCacheTTL(), logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	authService := service.NewAuthService(userService, tokenProvider, dispatcher, logger)
	auditService := service.NewAuditService(dispatcher, redis.Client, cfg.Auth.AuditTrailSize, logger)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewMiddleware(tokenProvider, userService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.CORS, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(),
		Users:          handlers.NewUsersHandler(userService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
