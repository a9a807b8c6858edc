package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// Create validates and persists a new product.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// GetAll retrieves all products.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Update validates and replaces all fields of an existing product.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderService defines operations for the order lifecycle.
type OrderService interface {
	// CreateOrder atomically creates an order with all its line items,
	// snapshotting each referenced product's current price.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// GetAll retrieves all orders with their items.
	GetAll(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// UpdateStatus transitions an order to a new status and notifies
	// subscribers after the write commits.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
}

// StatusNotifier receives order status changes after they are durably
// committed. Implementations must never fail the caller: delivery is
// best-effort.
type StatusNotifier interface {
	OrderStatusChanged(orderID uuid.UUID, status string)
}
