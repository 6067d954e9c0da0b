package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"productsvc/internal/config"
	"productsvc/internal/database"
	"productsvc/internal/handlers"
	"productsvc/internal/middleware"
	"productsvc/internal/repositories"
	"productsvc/internal/services"
	"productsvc/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber *fiber.App

	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	mq     *rabbitmq.Client
}

// NewApp connects every collaborator named by cfg and registers the routes.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: log}

	// --- Repositories ---
	var productRepo repositories.ProductRepository
	var userRepo repositories.UserRepository
	if cfg.DatabaseDriver == config.DriverMemory {
		productRepo = repositories.NewMemoryProductRepository()
	} else {
		db, err := database.Open(cfg, log)
		if err != nil {
			return nil, err
		}
		a.db = db
		productRepo = repositories.NewGORMProductRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
	}

	// --- RabbitMQ ---
	var publisher services.EventPublisher
	if cfg.RabbitMQEnabled {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.mq = mq
		publisher = mq
	}

	// --- Services and handlers ---
	productService := services.NewProductService(productRepo, publisher, log)
	productHandler := handlers.NewProductHandler(productService)

	a.Fiber = fiber.New(fiber.Config{
		ErrorHandler: handlers.NewErrorHandler(log),
	})
	a.Fiber.Use(recover.New())
	a.Fiber.Use(logger.New())

	var guard []fiber.Handler
	if cfg.AuthEnabled {
		authService := services.NewAuthService(userRepo, cfg.JWTSecret, log)
		handlers.NewAuthHandler(authService).RegisterRoutes(a.Fiber)
		guard = append(guard, middleware.AuthRequired(authService))
	}
	productHandler.RegisterRoutes(a.Fiber, guard...)

	a.Fiber.Get("/health", a.handleHealth)

	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": a.cfg.DatabaseDriver,
		"rabbitmq": "disabled",
	}
	if a.mq != nil {
		status["rabbitmq"] = "connected"
	}
	if a.db != nil {
		if err := database.Ping(a.db); err != nil {
			status["status"] = "unhealthy"
			status["error"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
	}
	return c.JSON(status)
}

// StartConsumer logs every product event delivered on the configured queue.
func (a *App) StartConsumer() error {
	if a.mq == nil {
		return errors.New("rabbitmq is not enabled")
	}
	return a.mq.Consume(func(msg amqp.Delivery) error {
		var event services.ProductEvent
		if err := decodeEvent(msg.Body, &event); err != nil {
			return err
		}
		a.logger.Info("received product event",
			zap.String("type", msg.Type),
			zap.String("message_id", msg.MessageId),
			zap.Uint("product_id", event.ProductID))
		return nil
	})
}

// Shutdown stops the HTTP server, waiting at most until ctx is done.
func (a *App) Shutdown(ctx context.Context) error {
	if a.Fiber == nil {
		return nil
	}
	return a.Fiber.ShutdownWithContext(ctx)
}

// Close releases the broker connection and database pool.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func decodeEvent(body []byte, event any) error {
	if err := json.Unmarshal(body, event); err != nil {
		return fmt.Errorf("failed to decode product event: %w", err)
	}
	return nil
}
