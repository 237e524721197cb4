package http

import (
	"context"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/config"
	"github.com/landsearch-microservice/internal/delivery/http/handler"
	"github.com/landsearch-microservice/internal/delivery/http/middleware"
	apperrors "github.com/landsearch-microservice/internal/pkg/errors"
	"github.com/landsearch-microservice/internal/pkg/metrics"
	"github.com/landsearch-microservice/internal/pkg/utils"
)

// Server - HTTP server built on Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	searchHandler *handler.SearchHandler
	parcelHandler *handler.ParcelHandler
}

// NewServer - creates a new HTTP server
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	searchHandler *handler.SearchHandler,
	parcelHandler *handler.ParcelHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "LandSearch Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		searchHandler: searchHandler,
		parcelHandler: parcelHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - middleware setup
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - route setup
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Health check
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Prometheus scrape endpoint
	s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := s.app.Group("/api/v1")
	plans := api.Group("/site-plans")

	// Fixed paths register before the parameterized ones so that
	// /unapproved is never captured as an id
	plans.Get("/unapproved", s.parcelHandler.ListUnapproved)
	plans.Get("/failed-uploads", s.parcelHandler.ListFailed)
	plans.Get("/metadata", s.parcelHandler.Metadata)
	plans.Get("/owner/:owner", s.parcelHandler.ListByOwner)
	plans.Get("/:id/geojson", s.parcelHandler.GeoJSON)
	plans.Get("/:id", s.parcelHandler.Get)
	plans.Get("/", s.parcelHandler.List)

	plans.Post("/search", s.searchHandler.Search)
	plans.Post("/process", s.parcelHandler.Process)
	plans.Post("/bulk", s.parcelHandler.StoreBulk)
	plans.Post("/", s.parcelHandler.Approve)

	plans.Put("/staging/:id", s.parcelHandler.UpdateStaging)
	plans.Put("/:id/coordinates", s.parcelHandler.Recompute)
	plans.Put("/:id", s.parcelHandler.Update)

	plans.Delete("/:id", s.parcelHandler.Delete)
}

// Start - starts the HTTP server
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown of the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - renders errors that escape the handlers
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return c.Status(appErr.StatusCode).JSON(utils.ErrorResponse{
				Error: appErr,
			})
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "HTTP_ERROR",
				"message": err.Error(),
			},
		})
	}
}
