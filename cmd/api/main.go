package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"luxe-backoffice/internal/admin"
	"luxe-backoffice/internal/config"
	"luxe-backoffice/internal/database"
	"luxe-backoffice/internal/handler"
	"luxe-backoffice/internal/media"
	"luxe-backoffice/internal/middleware"
	"luxe-backoffice/internal/repository"
	"luxe-backoffice/internal/router"
	"luxe-backoffice/internal/serializer"
	"luxe-backoffice/internal/service"
	"luxe-backoffice/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting LUXE back-office API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	// Admin console declarations are checked against the serialized forms before serving
	registry, err := admin.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("failed to build admin registry: %w", err)
	}
	if err := registry.Validate(); err != nil {
		return err
	}

	// Image storage: S3 with local fallback, or local only
	store := media.NewStore(ctx, cfg.Media, cfg.S3, logger)

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	deliveryRepo := repository.NewDeliveryRepository(pool, logger)

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, logger)
	productService := service.NewProductService(productRepo, store, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)
	deliveryService := service.NewDeliveryService(deliveryRepo, logger)

	// Initialize HTTP handlers
	ser := serializer.New(cfg.Pricing.USDToUGXRate, store)
	handlers := router.Handlers{
		Category: handler.NewCategoryHandler(categoryService, ser, logger),
		Product:  handler.NewProductHandler(productService, ser, cfg.Media.MaxUploadBytes, logger),
		Customer: handler.NewCustomerHandler(customerService, ser, logger),
		Order:    handler.NewOrderHandler(orderService, ser, logger),
		Delivery: handler.NewDeliveryHandler(deliveryService, ser, logger),
		Admin:    handler.NewAdminHandler(admin.NewSiteConfig(cfg.Admin), registry, productService, ser, logger),
	}

	if strings.HasPrefix(cfg.Media.BaseURL, "/") {
		handlers.MediaPath = cfg.Media.BaseURL
		handlers.Media = http.FileServer(http.Dir(cfg.Media.Root))
	}

	// Initialize router
	auth := middleware.NewAuthenticator(cfg.Auth.APIKey, cfg.Auth.JWTSecret, logger)
	mux := router.New(handlers, auth, pool, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
