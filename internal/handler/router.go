package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sefazor/cityevents-backend/internal/middleware"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/internal/service"
	jwtPkg "github.com/sefazor/cityevents-backend/pkg/jwt"
	"github.com/sefazor/cityevents-backend/pkg/metrics"
	"go.uber.org/zap"
)

// bodyLimit leaves room for multipart overhead around the largest image.
const bodyLimit = service.MaxImageSize + 1<<20

// Dependencies is everything the route table needs. Images, Metrics and Ping are optional.
type Dependencies struct {
	Logger     *zap.Logger
	Tokens     *jwtPkg.Manager
	Auth       *service.AuthService
	Categories *service.CategoryService
	Events     *service.EventService
	Ratings    *service.RatingService
	Images     *service.ImageService
	Metrics    *metrics.Metrics
	Ping       func(ctx context.Context) error

	CORSOrigins       string
	AuthRatePerMinute int
}

func NewApp(deps Dependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "cityevents",
		ErrorHandler:          ErrorHandler(logger),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestLogger(logger.Named("http")))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	// Inside the logger and metrics so panics are recorded as 500s.
	app.Use(recover.New())

	origins := deps.CORSOrigins
	if strings.TrimSpace(origins) == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	requireAuth := middleware.AuthMiddleware(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)

	healthHandler := NewHealthHandler(deps.Ping)
	authHandler := NewAuthHandler(deps.Auth, deps.Metrics)
	categoryHandler := NewCategoryHandler(deps.Categories)
	eventHandler := NewEventHandler(deps.Events, deps.Images)
	ratingHandler := NewRatingHandler(deps.Ratings, deps.Metrics)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	if deps.AuthRatePerMinute > 0 {
		authRoutes.Use(limiter.New(limiter.Config{
			Max:        deps.AuthRatePerMinute,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse("Too many requests"))
			},
		}))
	}
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", requireAuth, authHandler.Me)

	api.Get("/categories", categoryHandler.List)
	api.Post("/categories", requireAuth, middleware.RequireAdmin(), categoryHandler.Create)

	events := api.Group("/events")
	events.Get("/", optionalAuth, eventHandler.List)
	events.Get("/:id", eventHandler.Get)
	events.Post("/", requireAuth, eventHandler.Create)
	events.Put("/:id", requireAuth, eventHandler.Update)
	events.Delete("/:id", requireAuth, eventHandler.Delete)
	events.Post("/:id/rate", requireAuth, ratingHandler.Rate)
	if deps.Images != nil {
		events.Post("/:id/image", requireAuth, eventHandler.UploadImage)
	}

	return app
}
