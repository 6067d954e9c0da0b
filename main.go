package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productsvc/internal/config"
	"productsvc/internal/logging"

	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize app", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to release resources", zap.Error(err))
		}
	}()

	if cfg.RabbitMQConsume {
		if err := app.StartConsumer(); err != nil {
			logger.Error("failed to start product event consumer", zap.Error(err))
		}
	}

	// --- Start HTTP Server ---
	logger.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("database", cfg.DatabaseDriver))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Fiber.Listen(cfg.AppPort)
	}()

	select {
	case <-quit:
		logger.Info("shutting down server")
	case err := <-serverErr:
		logger.Error("server stopped", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		logger.Error("error during fiber shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
