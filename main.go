package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamforge/server/internal/config"
	"teamforge/server/internal/conversation"
	"teamforge/server/internal/database"
	"teamforge/server/internal/handlers"
	"teamforge/server/internal/logger"
	"teamforge/server/internal/repository"
	"teamforge/server/internal/routes"
	"teamforge/server/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	profiles := repository.NewPgProfileRepository(pool)
	messages := repository.NewPgMessageRepository(pool)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	h := handlers.New(handlers.Deps{
		Users:     repository.NewPgUserRepository(pool),
		Profiles:  profiles,
		Projects:  repository.NewPgProjectRepository(pool),
		Proposals: repository.NewPgProposalRepository(pool),
		Comments:  repository.NewPgCommentRepository(pool),
		Conversations: conversation.NewService(messages, profiles, log,
			conversation.WithHideSelf(cfg.HideSelfConversations)),
		Tokens:       tokens,
		UploadDir:    cfg.UploadDir,
		CookieSecure: cfg.CookieSecure,
		Log:          log,
	})

	app := fiber.New(fiber.Config{
		AppName:      "TeamForge API v1.0",
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    handlers.MaxAvatarSize + 512*1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, h, tokens)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.Address())
		errCh <- app.Listen(cfg.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
