package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/hub"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the service schema
// applied and a connection pool.
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
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "failed to create connection pool")

	require.NoError(t, pool.Ping(ctx), "failed to ping database")
	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()), "failed to apply schema")

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

// testOrigin is the CORS/WebSocket origin every integration client presents.
const testOrigin = "http://localhost:3000"

// TestApp is a fully wired API instance backed by a real database.
type TestApp struct {
	DB     *TestDB
	Hub    *hub.Hub
	Server *httptest.Server
}

// SetupTestApp wires repositories, services, the event hub and the HTTP
// router exactly as cmd/api does, and serves them via httptest.
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()

	db := SetupTestDB(t)
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)

	eventHub := hub.New(logger)

	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, eventHub, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	wsHandler := handler.NewWSHandler(eventHub, testOrigin, logger)

	srv := httptest.NewServer(router.New(productHandler, orderHandler, wsHandler, testOrigin, logger))
	t.Cleanup(srv.Close)

	return &TestApp{
		DB:     db,
		Hub:    eventHub,
		Server: srv,
	}
}

// SeedProducts inserts test product data and returns the rows by name.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) map[string]model.Product {
	t.Helper()

	ctx := context.Background()

	entries := []struct {
		name  string
		price float64
		stock int
	}{
		{"Espresso Machine", 349.00, 5},
		{"Burr Grinder", 79.00, 25},
		{"Pour Over Kettle", 44.50, 40},
	}

	seeded := make(map[string]model.Product, len(entries))
	for _, e := range entries {
		now := time.Now().UTC().Truncate(time.Microsecond)
		p := model.Product{
			ID:        uuid.New(),
			Name:      e.name,
			Price:     e.price,
			Stock:     e.stock,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, description, price, stock, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			p.ID, p.Name, p.Description, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt,
		)
		require.NoError(t, err, "failed to seed product %s", e.name)
		seeded[e.name] = p
	}

	return seeded
}

// CleanupDB removes all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
