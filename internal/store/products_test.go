package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/internal/store"
)

func newProductRepo(t *testing.T) (*store.ProductRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	return store.NewProductRepository(path), path
}

func TestProductCRUD(t *testing.T) {
	repo, _ := newProductRepo(t)

	p := &domain.Product{ID: "PRD-1", Type: domain.ProductGeneric, Name: "Box", StockQuantity: 5}
	require.NoError(t, repo.Add(p))
	assert.Equal(t, 1, repo.Count())

	assert.ErrorIs(t, repo.Add(p), domain.ErrDuplicateID)

	got, err := repo.FindByID("PRD-1")
	require.NoError(t, err)
	assert.Equal(t, "Box", got.Name)

	got.Name = "Crate"
	require.NoError(t, repo.Update(got))
	got2, err := repo.FindByID("PRD-1")
	require.NoError(t, err)
	assert.Equal(t, "Crate", got2.Name)

	require.NoError(t, repo.Delete("PRD-1"))
	_, err = repo.FindByID("PRD-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete("PRD-1"), domain.ErrNotFound)
}

func TestProductFindByIDReturnsCopy(t *testing.T) {
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-1", Name: "Box", StockQuantity: 10}))

	got, err := repo.FindByID("PRD-1")
	require.NoError(t, err)
	got.StockQuantity = 0

	again, err := repo.FindByID("PRD-1")
	require.NoError(t, err)
	assert.Equal(t, 10, again.StockQuantity)
}

func TestProductSearchIgnoresCaseAndAccents(t *testing.T) {
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-1", Name: "Café Filter", Category: "Kitchen"}))
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-2", Name: "Chair", Category: "Furniture"}))

	assert.Len(t, repo.Search("cafe"), 1)
	assert.Len(t, repo.Search("CAFÉ"), 1)
	assert.Len(t, repo.Search("kitchen"), 1)
	assert.Len(t, repo.Search("prd"), 2)
	assert.Empty(t, repo.Search("table"))
}

func TestProductLowStockIsStrictlyBelow(t *testing.T) {
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-1", Name: "A", StockQuantity: 9}))
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-2", Name: "B", StockQuantity: 10}))
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-3", Name: "C", StockQuantity: 11}))

	low := repo.LowStock(10)
	require.Len(t, low, 1)
	assert.Equal(t, "PRD-1", low[0].ID)
}

func TestProductSaveLoadRoundTrip(t *testing.T) {
	repo, path := newProductRepo(t)

	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	products := []*domain.Product{
		{ID: "PRD-1", Type: domain.ProductGeneric, Name: "Box", Category: "Misc",
			ImportPrice: 10, SalePrice: 15, StockQuantity: 100},
		{ID: "PRD-2", Type: domain.ProductElectronics, Name: "Laptop", Category: "Computers",
			ImportPrice: 800, SalePrice: 1200, StockQuantity: 4,
			Attrs: domain.ProductAttrs{WarrantyMonths: 24}},
		{ID: "PRD-3", Type: domain.ProductClothing, Name: "Shirt", Category: "Apparel",
			ImportPrice: 5, SalePrice: 12, StockQuantity: 50,
			Attrs: domain.ProductAttrs{Size: "L", Material: "Cotton"}},
		{ID: "PRD-4", Type: domain.ProductFood, Name: "Rice", Category: "Grocery",
			ImportPrice: 2, SalePrice: 3, StockQuantity: 500,
			Attrs: domain.ProductAttrs{ExpiryDate: expiry}},
		{ID: "PRD-5", Type: domain.ProductFurniture, Name: "Desk", Category: "Office",
			ImportPrice: 120, SalePrice: 200, StockQuantity: 7,
			Attrs: domain.ProductAttrs{Dimensions: "120x60x75", WeightKg: 18}},
	}
	for _, p := range products {
		require.NoError(t, repo.Add(p))
	}
	require.NoError(t, repo.Save())

	reloaded := store.NewProductRepository(path)
	require.NoError(t, reloaded.Load())
	require.Equal(t, len(products), reloaded.Count())

	for _, want := range products {
		got, err := reloaded.FindByID(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.StockQuantity, got.StockQuantity)
		assert.InDelta(t, want.ImportPrice, got.ImportPrice, 0.001)
	}

	laptop, _ := reloaded.FindByID("PRD-2")
	assert.Equal(t, 24, laptop.Attrs.WarrantyMonths)
	shirt, _ := reloaded.FindByID("PRD-3")
	assert.Equal(t, "L", shirt.Attrs.Size)
	assert.Equal(t, "Cotton", shirt.Attrs.Material)
	rice, _ := reloaded.FindByID("PRD-4")
	assert.True(t, rice.Attrs.ExpiryDate.Equal(expiry))
	desk, _ := reloaded.FindByID("PRD-5")
	assert.Equal(t, "120x60x75", desk.Attrs.Dimensions)
	assert.InDelta(t, 18, desk.Attrs.WeightKg, 0.001)
}

func TestProductLoadMissingFileIsEmpty(t *testing.T) {
	repo := store.NewProductRepository(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, repo.Load())
	assert.Zero(t, repo.Count())
}

func TestProductFindAllOrderedByID(t *testing.T) {
	repo, _ := newProductRepo(t)
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-3", Name: "C"}))
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-1", Name: "A"}))
	require.NoError(t, repo.Add(&domain.Product{ID: "PRD-2", Name: "B"}))

	all := repo.FindAll()
	require.Len(t, all, 3)
	assert.Equal(t, "PRD-1", all[0].ID)
	assert.Equal(t, "PRD-2", all[1].ID)
	assert.Equal(t, "PRD-3", all[2].ID)
}
