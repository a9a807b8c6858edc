package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func validProductRequest() *model.ProductRequest {
	desc := "A decent grinder"
	return &model.ProductRequest{
		Name:        "Burr Grinder",
		Description: &desc,
		Price:       79.00,
		Stock:       25,
	}
}

func TestProductService_Create_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

	svc := NewProductService(repo, logger)

	req := validProductRequest()
	product, err := svc.Create(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, req.Name, product.Name)
	assert.Equal(t, req.Price, product.Price)
	assert.Equal(t, req.Stock, product.Stock)
	repo.AssertExpectations(t)
}

func TestProductService_Create_Validation(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.ProductRequest)
		field  string
	}{
		{
			name:   "name too short",
			mutate: func(r *model.ProductRequest) { r.Name = "ab" },
			field:  "name",
		},
		{
			name:   "name too long",
			mutate: func(r *model.ProductRequest) { r.Name = string(make([]byte, 101)) },
			field:  "name",
		},
		{
			name:   "zero price",
			mutate: func(r *model.ProductRequest) { r.Price = 0 },
			field:  "price",
		},
		{
			name:   "negative price",
			mutate: func(r *model.ProductRequest) { r.Price = -1 },
			field:  "price",
		},
		{
			name:   "negative stock",
			mutate: func(r *model.ProductRequest) { r.Stock = -1 },
			field:  "stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			svc := NewProductService(repo, logger)

			req := validProductRequest()
			tt.mutate(req)

			product, err := svc.Create(ctx, req)

			require.Error(t, err)
			assert.Nil(t, product)

			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
			assert.Contains(t, domainErr.Message, tt.field)

			// Invalid payloads never reach the store
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductService_Create_IntegrityConflict(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(model.ErrIntegrityConflict)

	svc := NewProductService(repo, logger)

	product, err := svc.Create(ctx, validProductRequest())

	assert.Nil(t, product)
	assert.ErrorIs(t, err, model.ErrIntegrityConflict)
}

func TestProductService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()
	want := &model.Product{ID: id, Name: "Ceramic Mug", Price: 12.00, Stock: 200, CreatedAt: time.Now()}

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, id).Return(want, nil)

	svc := NewProductService(repo, logger)

	product, err := svc.GetByID(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, want, product)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, id).Return(nil, nil)

	svc := NewProductService(repo, logger)

	product, err := svc.GetByID(ctx, id)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestProductService_GetAll_EmptyIsNotNil(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	repo := new(MockProductRepository)
	repo.On("GetAll", ctx).Return(nil, nil)

	svc := NewProductService(repo, logger)

	products, err := svc.GetAll(ctx)

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductService_Update(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()
	created := time.Now().Add(-time.Hour)
	existing := &model.Product{ID: id, Name: "Old Name", Price: 10, Stock: 1, CreatedAt: created}

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, id).Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*model.Product")).Return(true, nil)

	svc := NewProductService(repo, logger)

	req := validProductRequest()
	product, err := svc.Update(ctx, id, req)

	require.NoError(t, err)
	assert.Equal(t, id, product.ID)
	assert.Equal(t, req.Name, product.Name)
	assert.Equal(t, created, product.CreatedAt, "creation time survives updates")
	repo.AssertExpectations(t)
}

func TestProductService_Update_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()

	repo := new(MockProductRepository)
	repo.On("GetByID", ctx, id).Return(nil, nil)

	svc := NewProductService(repo, logger)

	product, err := svc.Update(ctx, id, validProductRequest())

	assert.Nil(t, product)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_Delete(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()

	repo := new(MockProductRepository)
	repo.On("Delete", ctx, id).Return(true, nil)

	svc := NewProductService(repo, logger)

	require.NoError(t, svc.Delete(ctx, id))
	repo.AssertExpectations(t)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()

	repo := new(MockProductRepository)
	repo.On("Delete", ctx, id).Return(false, nil)

	svc := NewProductService(repo, logger)

	assert.ErrorIs(t, svc.Delete(ctx, id), model.ErrProductNotFound)
}

func TestProductService_Delete_StoreError(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	id := uuid.New()

	repo := new(MockProductRepository)
	repo.On("Delete", ctx, id).Return(false, errors.New("connection reset"))

	svc := NewProductService(repo, logger)

	err := svc.Delete(ctx, id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrProductNotFound)
}
