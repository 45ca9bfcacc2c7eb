// Package main wires the HTTP server for the team task manager.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"team-task-manager/config"
	"team-task-manager/internal/auth"
	"team-task-manager/internal/ratelimit"
	"team-task-manager/internal/repository"
	"team-task-manager/internal/transport/http/middleware"
	"team-task-manager/internal/transport/http/server/handlers-fiber"
	"team-task-manager/internal/usecase"
	"team-task-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	repo, err := repository.New(ctx, "postgres", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	hasher := auth.NewBcrypt(cfg.Auth.BcryptCost)
	uc := usecase.New(log, ctx, repo, hasher, cfg.HTTP.RequestTimeout)
	sessions := middleware.NewSessions(log, cfg.Session, repo.Sessions(), uc)
	h := handlers_fiber.NewHandler(log, uc, sessions, cfg.IsProduction())

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: h.ErrorHandler,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))
	serv.Use(helmet.New())
	serv.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.FrontendURL,
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		ExposeHeaders:    "Content-Range,X-Content-Range",
	}))

	if cfg.Redis.URL != "" {
		rl, err := ratelimit.NewRateLimiter(ctx, cfg.Redis.URL)
		if err != nil {
			log.Errorw("rate limiter initialization error", "error", err)
			return
		}
		defer func() { _ = rl.Close() }()
		serv.Use(middleware.RedisRateLimit(log, rl, cfg.RateLimit.Max, cfg.RateLimit.Window))
	} else {
		serv.Use(middleware.MemoryRateLimit(cfg.RateLimit.Max, cfg.RateLimit.Window))
	}

	h.RegisterRoutes(serv)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}
