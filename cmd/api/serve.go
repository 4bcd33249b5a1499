package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/cityevents-backend/internal/config"
	"github.com/sefazor/cityevents-backend/internal/handler"
	"github.com/sefazor/cityevents-backend/internal/repository"
	"github.com/sefazor/cityevents-backend/internal/service"
	"github.com/sefazor/cityevents-backend/pkg/database"
	"github.com/sefazor/cityevents-backend/pkg/email"
	jwtPkg "github.com/sefazor/cityevents-backend/pkg/jwt"
	"github.com/sefazor/cityevents-backend/pkg/metrics"
	"github.com/sefazor/cityevents-backend/pkg/storage"
	"github.com/sefazor/cityevents-backend/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.UsesDefaultSecret() {
		if !cfg.IsDevelopment() {
			return errors.New("JWT_SECRET must be set outside development")
		}
		logger.Warn("using the development JWT secret")
	}

	db, err := database.ConnectAndMigrate(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	app, err := buildApp(ctx, cfg, db, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ServerAddr()))
		errCh <- app.Listen(cfg.ServerAddr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func buildApp(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*fiber.App, error) {
	validator := utils.NewValidator()
	tokens := jwtPkg.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	eventRepo := repository.NewEventRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	var mailer email.Sender = email.NopSender{}
	if cfg.Email.Enabled() {
		mailer = email.NewEmailService(cfg.Email, logger)
	} else {
		logger.Info("email disabled")
	}

	var imageService *service.ImageService
	if cfg.R2.Enabled() {
		r2, err := storage.NewR2Storage(ctx, cfg.R2)
		if err != nil {
			return nil, err
		}
		imageService = service.NewImageService(eventRepo, r2, validator, logger)
	} else {
		logger.Info("image storage disabled")
	}

	return handler.NewApp(handler.Dependencies{
		Logger:            logger,
		Tokens:            tokens,
		Auth:              service.NewAuthService(userRepo, tokens, mailer, validator, cfg.Auth.AdminCode, logger),
		Categories:        service.NewCategoryService(categoryRepo),
		Events:            service.NewEventService(eventRepo, categoryRepo, validator, cfg.Auth.ListingFlagsRequireAdmin),
		Ratings:           service.NewRatingService(ratingRepo, eventRepo),
		Images:            imageService,
		Metrics:           metrics.New(),
		Ping:              func(ctx context.Context) error { return database.Ping(ctx, db) },
		CORSOrigins:       cfg.CORSOrigins,
		AuthRatePerMinute: cfg.Auth.RateLimitPerMinute,
	}), nil
}
