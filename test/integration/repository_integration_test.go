package integration

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures status notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []struct {
		orderID uuid.UUID
		status  string
	}
}

func (n *recordingNotifier) OrderStatusChanged(orderID uuid.UUID, status string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, struct {
		orderID uuid.UUID
		status  string
	}{orderID, status})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type serviceFixture struct {
	db       *TestDB
	products service.ProductService
	orders   service.OrderService
	notifier *recordingNotifier
}

func setupServices(t *testing.T) *serviceFixture {
	t.Helper()

	db := SetupTestDB(t)
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)
	notifier := &recordingNotifier{}

	return &serviceFixture{
		db:       db,
		products: service.NewProductService(productRepo, logger),
		orders:   service.NewOrderService(orderRepo, productRepo, notifier, logger),
		notifier: notifier,
	}
}

func TestOrderService_Integration_SnapshotPrice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	fx := setupServices(t)
	ctx := context.Background()

	product, err := fx.products.Create(ctx, &model.ProductRequest{
		Name:  "Milk Frother",
		Price: 24.00,
		Stock: 60,
	})
	require.NoError(t, err)

	order, err := fx.orders.CreateOrder(ctx, &model.OrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items:         []model.OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 24.00, order.Items[0].Price)

	// Repricing the product must not touch the existing line item.
	_, err = fx.products.Update(ctx, product.ID, &model.ProductRequest{
		Name:  product.Name,
		Price: 31.00,
		Stock: product.Stock,
	})
	require.NoError(t, err)

	got, err := fx.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 24.00, got.Items[0].Price)
}

func TestOrderService_Integration_AllOrNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	fx := setupServices(t)
	ctx := context.Background()

	product, err := fx.products.Create(ctx, &model.ProductRequest{
		Name:  "Milk Frother",
		Price: 24.00,
		Stock: 60,
	})
	require.NoError(t, err)

	_, err = fx.orders.CreateOrder(ctx, &model.OrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items: []model.OrderItemRequest{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	require.Error(t, err)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeProductNotFound, domainErr.Code)

	orders, err := fx.orders.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_Integration_StatusNotification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	fx := setupServices(t)
	ctx := context.Background()

	product, err := fx.products.Create(ctx, &model.ProductRequest{
		Name:  "Milk Frother",
		Price: 24.00,
		Stock: 60,
	})
	require.NoError(t, err)

	order, err := fx.orders.CreateOrder(ctx, &model.OrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items:         []model.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Creation is not a status change.
	assert.Zero(t, fx.notifier.count())

	updated, err := fx.orders.UpdateStatus(ctx, order.ID, model.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)

	require.Equal(t, 1, fx.notifier.count())
	assert.Equal(t, order.ID, fx.notifier.events[0].orderID)
	assert.Equal(t, model.StatusShipped, fx.notifier.events[0].status)

	// A failed transition publishes nothing.
	_, err = fx.orders.UpdateStatus(ctx, uuid.New(), model.StatusDelivered)
	require.Error(t, err)
	assert.Equal(t, 1, fx.notifier.count())
}
