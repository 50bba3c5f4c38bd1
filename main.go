package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"productapi/internal/app"
	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/handlers"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
	applog "productapi/pkg/logger"
	"productapi/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server gracefully stopped")
}

// run wires the service from configuration and serves HTTP until ctx is cancelled.
func run(ctx context.Context) error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := applog.New(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("Configuration loaded",
		"port", cfg.AppPort,
		"database_driver", cfg.DatabaseDriver,
		"events_enabled", cfg.EventsEnabled(),
		"seed_sample_data", cfg.SeedSampleData,
	)

	// --- Persistence ---
	productRepo, pinger, closeStore, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Product events ---
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				logger.Warn("Error closing RabbitMQ client", "error", err)
			}
		}()
		publisher = mqClient
	} else {
		logger.Info("RABBITMQ_URL is not set. Product events are disabled.")
	}

	productService := services.NewProductService(productRepo, publisher, logger)

	if cfg.SeedSampleData {
		if err := seedProducts(ctx, productRepo, logger); err != nil {
			return err
		}
	}

	application := app.New(app.Dependencies{
		ProductService: productService,
		DB:             pinger,
		Logger:         logger,
	})

	// --- Serve until interrupted ---
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.AppPort)
		if err := application.Listen(cfg.AppPort); err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")
		return application.ShutdownWithTimeout(cfg.ShutdownTimeout)
	})
	return g.Wait()
}

// openRepository returns the product store for the configured driver, the
// pinger used by the health check and a function releasing the store.
func openRepository(cfg *config.Config, logger *slog.Logger) (repositories.ProductRepository, handlers.Pinger, func(), error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		logger.Warn("Using the in-memory product store. Data is lost on restart.")
		return repositories.NewInMemoryProductRepository(), nil, func() {}, nil
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, applog.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	logger.Info("Successfully connected to the database", "driver", cfg.DatabaseDriver)

	closeStore := func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Error closing database", "error", err)
		}
	}
	return repositories.NewGORMProductRepository(db), sqlDB, closeStore, nil
}

// seedProducts populates an empty product store with sample data.
func seedProducts(ctx context.Context, repo repositories.ProductRepository, logger *slog.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products before seeding: %w", err)
	}
	if count > 0 {
		logger.Info("Product store is not empty, skipping sample data", "count", count)
		return nil
	}

	for _, product := range sampleProducts() {
		if err := repo.Save(ctx, &product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", product.Name, err)
		}
	}

	count, err = repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products after seeding: %w", err)
	}
	logger.Info("Sample data initialized", "products", count)
	return nil
}

func sampleProducts() []models.Product {
	describe := func(s string) *string { return &s }
	return []models.Product{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Description: describe("High performance laptop")},
		{Name: "Mouse", Price: decimal.RequireFromString("29.99"), Description: describe("Wireless mouse")},
		{Name: "Keyboard", Price: decimal.RequireFromString("79.99"), Description: describe("Mechanical keyboard")},
		{Name: "Monitor", Price: decimal.RequireFromString("299.99"), Description: describe("27 inch 4K monitor")},
		{Name: "Headphones", Price: decimal.RequireFromString("149.99"), Description: describe("Noise cancelling headphones")},
	}
}
