package integration

import (
	"context"
	"net/http"
	"testing"
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAPIKey is the admin key accepted by servers built with SetupTestServer.
const TestAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a pool and the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.ApplySchema(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SetupTestServer wires the full application stack on top of testDB, storing
// images under a temporary directory.
func SetupTestServer(t *testing.T, testDB *TestDB) (http.Handler, Services) {
	t.Helper()

	logger := zerolog.Nop()
	store := media.NewFileStore(t.TempDir(), "/media/", logger)

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	svc := Services{
		Categories: service.NewCategoryService(repository.NewCategoryRepository(testDB.Pool, logger), logger),
		Products:   service.NewProductService(productRepo, store, logger),
		Customers:  service.NewCustomerService(repository.NewCustomerRepository(testDB.Pool, logger), logger),
		Orders:     service.NewOrderService(orderRepo, productRepo, logger),
		Deliveries: service.NewDeliveryService(repository.NewDeliveryRepository(testDB.Pool, logger), logger),
	}

	registry, err := admin.DefaultRegistry()
	if err != nil {
		t.Fatalf("failed to build admin registry: %v", err)
	}

	ser := serializer.New(decimal.NewFromInt(3700), store)
	handlers := router.Handlers{
		Category: handler.NewCategoryHandler(svc.Categories, ser, logger),
		Product:  handler.NewProductHandler(svc.Products, ser, 1<<20, logger),
		Customer: handler.NewCustomerHandler(svc.Customers, ser, logger),
		Order:    handler.NewOrderHandler(svc.Orders, ser, logger),
		Delivery: handler.NewDeliveryHandler(svc.Deliveries, ser, logger),
		Admin:    handler.NewAdminHandler(admin.SiteConfig{Header: "LUXE E-commerce Admin"}, registry, svc.Products, ser, logger),
	}

	auth := middleware.NewAuthenticator(TestAPIKey, "", logger)
	return router.New(handlers, auth, testDB.Pool, logger), svc
}

// Services exposes the services behind a test server for direct use.
type Services struct {
	Categories service.CategoryService
	Products   service.ProductService
	Customers  service.CustomerService
	Orders     service.OrderService
	Deliveries service.DeliveryService
}

// CleanupDB removes all rows and resets identity sequences.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE deliveries, order_items, orders, customers, product_images, products, categories
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
