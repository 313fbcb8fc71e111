package service

import (
	"context"
	"testing"
	"time"

	"pricy/internal/model"
	"pricy/internal/report"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPriceService_AddPrice(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name         string
		req          *model.AddPriceRequest
		storeError   error
		expectStore  bool
		expectedErr  error
		expectedDate string
	}{
		{
			name: "Success with explicit date",
			req: &model.AddPriceRequest{
				Product:    "Coffee",
				Concession: "Gate12",
				Amount:     3.50,
				Date:       "2024-01-01",
			},
			expectStore:  true,
			expectedDate: "2024-01-01",
		},
		{
			name: "Empty date defaults to today",
			req: &model.AddPriceRequest{
				Product:    "Coffee",
				Concession: "Gate12",
				Amount:     3.50,
			},
			expectStore:  true,
			expectedDate: time.Now().UTC().Format(model.DateLayout),
		},
		{
			name:        "Empty product rejected",
			req:         &model.AddPriceRequest{Concession: "Gate12", Amount: 3.50},
			expectStore: false,
			expectedErr: model.ErrProductNameRequired,
		},
		{
			name:        "Empty concession rejected",
			req:         &model.AddPriceRequest{Product: "Coffee", Amount: 3.50},
			expectStore: false,
			expectedErr: model.ErrConcessionNameRequired,
		},
		{
			name:        "Negative amount rejected",
			req:         &model.AddPriceRequest{Product: "Coffee", Concession: "Gate12", Amount: -0.01},
			expectStore: false,
			expectedErr: model.ErrNegativeAmount,
		},
		{
			name:        "Malformed date rejected",
			req:         &model.AddPriceRequest{Product: "Coffee", Concession: "Gate12", Amount: 3.50, Date: "01/02/2024"},
			expectStore: false,
			expectedErr: model.ErrInvalidDate,
		},
		{
			name:        "Unknown product reported unchanged",
			req:         &model.AddPriceRequest{Product: "Tea", Concession: "Gate12", Amount: 3.50, Date: "2024-01-01"},
			storeError:  model.ErrProductNotFound,
			expectStore: true,
			expectedErr: model.ErrProductNotFound,
		},
		{
			name:        "Unknown concession reported unchanged",
			req:         &model.AddPriceRequest{Product: "Coffee", Concession: "Gate99", Amount: 3.50, Date: "2024-01-01"},
			storeError:  model.ErrConcessionNotFound,
			expectStore: true,
			expectedErr: model.ErrConcessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			if tt.expectStore {
				mockStore.On("AddPrice", ctx, mock.MatchedBy(func(p model.Price) bool {
					return p.Date.Format(model.DateLayout) == tt.expectedDate || tt.expectedDate == ""
				})).Return(model.Price{ID: 1}, tt.storeError)
			}

			svc := NewPriceService(mockStore, logger)
			price, err := svc.AddPrice(ctx, tt.req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, price)
			} else {
				require.NoError(t, err)
				require.NotNil(t, price)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestPriceService_AddPrice_ZeroAmountAllowed(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("AddPrice", mock.Anything, mock.AnythingOfType("model.Price")).
		Return(model.Price{ID: 1, Amount: 0}, nil)

	svc := NewPriceService(mockStore, zerolog.Nop())
	price, err := svc.AddPrice(context.Background(), &model.AddPriceRequest{
		Product:    "Water",
		Concession: "Gate12",
		Amount:     0,
		Date:       "2024-01-01",
	})

	require.NoError(t, err)
	assert.Equal(t, float64(0), price.Amount)
	mockStore.AssertExpectations(t)
}

func TestPriceService_ListPrices(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	date, err := time.Parse(model.DateLayout, "2024-01-01")
	require.NoError(t, err)

	prices := []model.Price{
		{ID: 1, Product: "Coffee", Concession: "Gate12", Amount: 3.50, Date: date},
		{ID: 2, Product: "Coffee", Concession: "CityMart", Amount: 2.80, Date: date},
		{ID: 3, Product: "Water", Concession: "Gate12", Amount: 2.00, Date: date},
	}
	concessions := []model.Concession{
		{ID: 1, Name: "Gate12", Location: model.LocationAirside},
		{ID: 2, Name: "CityMart", Location: model.LocationCity},
	}

	t.Run("No filter returns everything without loading concessions", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("ListPrices", ctx).Return(prices, nil)

		svc := NewPriceService(mockStore, logger)
		result, err := svc.ListPrices(ctx, report.Filter{})
		require.NoError(t, err)
		assert.Equal(t, prices, result)
		mockStore.AssertNotCalled(t, "ListConcessions", ctx)
	})

	t.Run("Product filter", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("ListPrices", ctx).Return(prices, nil)

		svc := NewPriceService(mockStore, logger)
		result, err := svc.ListPrices(ctx, report.Filter{Product: "Water"})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, int64(3), result[0].ID)
	})

	t.Run("Location filter loads concessions", func(t *testing.T) {
		mockStore := new(MockStore)
		mockStore.On("ListPrices", ctx).Return(prices, nil)
		mockStore.On("ListConcessions", ctx).Return(concessions, nil)

		svc := NewPriceService(mockStore, logger)
		result, err := svc.ListPrices(ctx, report.Filter{Location: model.LocationAirside})
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Gate12", result[0].Concession)
		assert.Equal(t, "Gate12", result[1].Concession)
		mockStore.AssertExpectations(t)
	})
}
