package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pricy/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pricy-test.db")
	store, err := Open(context.Background(), path, zerolog.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	require.NoError(t, err)
	return d
}

func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.AddProduct(ctx, model.Product{Name: "Coffee", Category: model.CategoryBeverage})
	require.NoError(t, err)
	_, err = s.AddConcession(ctx, model.Concession{Name: "Gate12", Location: model.LocationAirside})
	require.NoError(t, err)
	_, err = s.AddConcession(ctx, model.Concession{Name: "CityMart", Location: model.LocationCity})
	require.NoError(t, err)
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := Open(context.Background(), "  ", zerolog.Nop())
	assert.Error(t, err)
}

func TestStore_AddProduct_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.AddProduct(ctx, model.Product{Name: "Coffee", Category: model.CategoryBeverage, Notes: "espresso"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	_, err = s.AddProduct(ctx, model.Product{Name: "Coffee", Category: model.CategorySnack})
	assert.ErrorIs(t, err, model.ErrDuplicateProduct)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, model.CategoryBeverage, products[0].Category)
	assert.Equal(t, "espresso", products[0].Notes)
}

func TestStore_AddConcession_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddConcession(ctx, model.Concession{Name: "Gate12", Location: model.LocationAirside})
	require.NoError(t, err)
	_, err = s.AddConcession(ctx, model.Concession{Name: "Gate12", Location: model.LocationCity})
	assert.ErrorIs(t, err, model.ErrDuplicateConcession)
}

func TestStore_AddPrice_ReferentialIntegrity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	_, err := s.AddPrice(ctx, model.Price{Product: "Tea", Concession: "Gate12", Amount: 2.50, Date: day(t, "2024-01-01")})
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	_, err = s.AddPrice(ctx, model.Price{Product: "Coffee", Concession: "Gate99", Amount: 2.50, Date: day(t, "2024-01-01")})
	assert.ErrorIs(t, err, model.ErrConcessionNotFound)

	prices, err := s.ListPrices(ctx)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestStore_AddPrice_DateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	created, err := s.AddPrice(ctx, model.Price{
		Product:    "Coffee",
		Concession: "Gate12",
		Amount:     3.50,
		Date:       day(t, "2024-02-29"),
		Notes:      "leap day",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	prices, err := s.ListPrices(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 1)

	assert.Equal(t, "Coffee", prices[0].Product)
	assert.Equal(t, "Gate12", prices[0].Concession)
	assert.Equal(t, 3.50, prices[0].Amount)
	assert.Equal(t, day(t, "2024-02-29"), prices[0].Date)
	assert.Equal(t, "leap day", prices[0].Notes)
}

func TestStore_DeleteProduct_Cascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	_, err := s.AddProduct(ctx, model.Product{Name: "Sandwich", Category: model.CategoryMeal})
	require.NoError(t, err)

	for _, p := range []struct {
		product    string
		concession string
	}{
		{"Coffee", "Gate12"},
		{"Coffee", "CityMart"},
		{"Sandwich", "Gate12"},
	} {
		_, err := s.AddPrice(ctx, model.Price{
			Product:    p.product,
			Concession: p.concession,
			Amount:     5.00,
			Date:       day(t, "2024-01-01"),
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteProduct(ctx, "Coffee"))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sandwich", products[0].Name)

	prices, err := s.ListPrices(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Sandwich", prices[0].Product)
}

func TestStore_DeleteConcession_Cascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	for _, concession := range []string{"Gate12", "CityMart"} {
		_, err := s.AddPrice(ctx, model.Price{
			Product:    "Coffee",
			Concession: concession,
			Amount:     3.00,
			Date:       day(t, "2024-01-01"),
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteConcession(ctx, "Gate12"))

	prices, err := s.ListPrices(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "CityMart", prices[0].Concession)
}

func TestStore_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.DeleteProduct(ctx, "Ghost"), model.ErrProductNotFound)
	assert.ErrorIs(t, s.DeleteConcession(ctx, "Ghost"), model.ErrConcessionNotFound)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricy-test.db")
	ctx := context.Background()

	store, err := Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)

	_, err = store.AddProduct(ctx, model.Product{Name: "Coffee", Category: model.CategoryBeverage})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	products, err := reopened.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Coffee", products[0].Name)
}
