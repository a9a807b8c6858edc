package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// GetAll retrieves all products.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDTx retrieves a product within the provided transaction, so
	// order creation snapshots the price the same transaction observes.
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error)

	// Update replaces all mutable fields of a product. Returns false
	// when the product does not exist.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. Returns false when the product does not
	// exist. Line items referencing the product are removed by the
	// store's cascade rules.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns (nil, nil) when
	// the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetAll retrieves all orders with their items.
	GetAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus atomically sets the status of an order and returns the
	// updated row, items included. The returned status is exactly the
	// value this update persisted. Returns (nil, nil) when the order does
	// not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
}
