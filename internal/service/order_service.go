package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notifier    StatusNotifier
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifier StatusNotifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder atomically creates an order with all its line items. Each
// referenced product is looked up inside the same transaction and its
// current price copied onto the line item; a missing product aborts the
// whole transaction, so no partial order is ever visible.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("order validation failed")
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        model.StatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		var product *model.Product
		product, err = s.productRepo.GetByIDTx(ctx, tx, reqItem.ProductID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("product_id", reqItem.ProductID.String()).
				Msg("failed to look up product")
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if product == nil {
			s.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("product_id", reqItem.ProductID.String()).
				Msg("order references missing product")
			err = model.NewProductNotFoundError(reqItem.ProductID)
			return nil, err
		}

		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  reqItem.Quantity,
			Price:     product.Price,
		})
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Items = items

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Msg("order created successfully")

	return order, nil
}

// GetAll retrieves all orders with their items.
func (s *orderService) GetAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// UpdateStatus transitions an order to a new status. Subscribers are
// notified only after the write commits, and only with the status this
// update persisted. A notification failure never fails the request: the
// durable state change already happened.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("status", status).
			Msg("rejected unknown order status")
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found for status update")
		return nil, model.ErrOrderNotFound
	}

	s.notifier.OrderStatusChanged(order.ID, order.Status)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", order.Status).
		Msg("order status updated")

	return order, nil
}

// validateOrderRequest validates the order request.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("body", "order payload is required")
	}

	if req.CustomerName == "" {
		return model.NewValidationError("customer_name", "must not be empty")
	}

	if req.CustomerEmail == "" {
		return model.NewValidationError("customer_email", "must not be empty")
	}

	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return model.NewValidationError("customer_email", "must be a valid email address")
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("items", "order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return model.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "is required")
		}

		if item.Quantity <= 0 {
			return model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
	}

	return nil
}
