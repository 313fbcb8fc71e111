package service

import (
	"context"
	"errors"
	"testing"

	"pricy/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of storage.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) AddProduct(ctx context.Context, product model.Product) (model.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockStore) AddConcession(ctx context.Context, concession model.Concession) (model.Concession, error) {
	args := m.Called(ctx, concession)
	return args.Get(0).(model.Concession), args.Error(1)
}

func (m *MockStore) AddPrice(ctx context.Context, price model.Price) (model.Price, error) {
	args := m.Called(ctx, price)
	return args.Get(0).(model.Price), args.Error(1)
}

func (m *MockStore) DeleteProduct(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockStore) DeleteConcession(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockStore) ListConcessions(ctx context.Context) ([]model.Concession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Concession), args.Error(1)
}

func (m *MockStore) ListPrices(ctx context.Context) ([]model.Price, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Price), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestCatalogService_AddProduct(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		req         *model.AddProductRequest
		storeResult model.Product
		storeError  error
		expectStore bool
		expectedErr error
	}{
		{
			name:        "Success",
			req:         &model.AddProductRequest{Name: "Coffee", Category: "Beverage", Notes: "12oz"},
			storeResult: model.Product{ID: 1, Name: "Coffee", Category: model.CategoryBeverage, Notes: "12oz"},
			expectStore: true,
		},
		{
			name:        "Name is trimmed before storage",
			req:         &model.AddProductRequest{Name: "  Coffee  ", Category: "Beverage"},
			storeResult: model.Product{ID: 1, Name: "Coffee", Category: model.CategoryBeverage},
			expectStore: true,
		},
		{
			name:        "Empty name rejected before storage",
			req:         &model.AddProductRequest{Name: "   ", Category: "Beverage"},
			expectStore: false,
			expectedErr: model.ErrProductNameRequired,
		},
		{
			name:        "Invalid category rejected before storage",
			req:         &model.AddProductRequest{Name: "Coffee", Category: "Gadget"},
			expectStore: false,
			expectedErr: model.ErrInvalidCategory,
		},
		{
			name:        "Duplicate reported unchanged",
			req:         &model.AddProductRequest{Name: "Coffee", Category: "Beverage"},
			storeError:  model.ErrDuplicateProduct,
			expectStore: true,
			expectedErr: model.ErrDuplicateProduct,
		},
		{
			name:        "Infrastructure error wrapped",
			req:         &model.AddProductRequest{Name: "Coffee", Category: "Beverage"},
			storeError:  errors.New("connection refused"),
			expectStore: true,
			expectedErr: nil, // wrapped, checked below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			if tt.expectStore {
				mockStore.On("AddProduct", ctx, mock.AnythingOfType("model.Product")).
					Return(tt.storeResult, tt.storeError)
			}

			svc := NewCatalogService(mockStore, logger)
			product, err := svc.AddProduct(ctx, tt.req)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, product)
			case tt.storeError != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to add product")
				assert.Nil(t, product)
			default:
				require.NoError(t, err)
				require.NotNil(t, product)
				assert.Equal(t, tt.storeResult, *product)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestCatalogService_AddConcession(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		req         *model.AddConcessionRequest
		storeResult model.Concession
		storeError  error
		expectStore bool
		expectedErr error
	}{
		{
			name:        "Success",
			req:         &model.AddConcessionRequest{Name: "Gate12", Location: "Airside"},
			storeResult: model.Concession{ID: 1, Name: "Gate12", Location: model.LocationAirside},
			expectStore: true,
		},
		{
			name:        "Empty name rejected",
			req:         &model.AddConcessionRequest{Name: "", Location: "Airside"},
			expectStore: false,
			expectedErr: model.ErrConcessionNameRequired,
		},
		{
			name:        "Invalid location rejected",
			req:         &model.AddConcessionRequest{Name: "Gate12", Location: "Orbit"},
			expectStore: false,
			expectedErr: model.ErrInvalidLocation,
		},
		{
			name:        "Duplicate reported unchanged",
			req:         &model.AddConcessionRequest{Name: "Gate12", Location: "Airside"},
			storeError:  model.ErrDuplicateConcession,
			expectStore: true,
			expectedErr: model.ErrDuplicateConcession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			if tt.expectStore {
				mockStore.On("AddConcession", ctx, mock.AnythingOfType("model.Concession")).
					Return(tt.storeResult, tt.storeError)
			}

			svc := NewCatalogService(mockStore, logger)
			concession, err := svc.AddConcession(ctx, tt.req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, concession)
			} else {
				require.NoError(t, err)
				require.NotNil(t, concession)
				assert.Equal(t, tt.storeResult, *concession)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("DeleteProduct", ctx, "Coffee").Return(nil)

		svc := NewCatalogService(mockStore, logger)
		assert.NoError(t, svc.DeleteProduct(ctx, "Coffee"))
		mockStore.AssertExpectations(t)
	})

	t.Run("Not found reported unchanged", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("DeleteProduct", ctx, "Ghost").Return(model.ErrProductNotFound)

		svc := NewCatalogService(mockStore, logger)
		assert.ErrorIs(t, svc.DeleteProduct(ctx, "Ghost"), model.ErrProductNotFound)
		mockStore.AssertExpectations(t)
	})

	t.Run("Empty name rejected before storage", func(t *testing.T) {
		mockStore := new(MockStore)

		svc := NewCatalogService(mockStore, logger)
		assert.ErrorIs(t, svc.DeleteProduct(ctx, "  "), model.ErrProductNameRequired)
		mockStore.AssertExpectations(t)
	})
}

func TestCatalogService_ListProducts(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	testProducts := []model.Product{
		{ID: 1, Name: "Coffee", Category: model.CategoryBeverage},
		{ID: 2, Name: "Sandwich", Category: model.CategoryMeal},
	}

	t.Run("Success", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("ListProducts", ctx).Return(testProducts, nil)

		svc := NewCatalogService(mockStore, logger)
		products, err := svc.ListProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, testProducts, products)
		mockStore.AssertExpectations(t)
	})

	t.Run("Storage error wrapped", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("ListProducts", ctx).Return(nil, errors.New("connection refused"))

		svc := NewCatalogService(mockStore, logger)
		_, err := svc.ListProducts(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list products")
		mockStore.AssertExpectations(t)
	})
}
