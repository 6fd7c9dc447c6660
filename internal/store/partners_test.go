package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/internal/store"
)

func TestSupplierRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppliers.csv")
	repo := store.NewSupplierRepository(path)

	require.NoError(t, repo.Add(&domain.Supplier{
		ID: "SUP-1", Name: "Acme", Phone: "0901234567",
		Email: "sales@acme.test", Address: "1 Industrial Rd",
		Categories: "Electronics,Furniture",
	}))
	require.NoError(t, repo.Save())

	reloaded := store.NewSupplierRepository(path)
	require.NoError(t, reloaded.Load())
	got, err := reloaded.FindByID("SUP-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Electronics,Furniture", got.Categories)
}

func TestCustomerRoundTripKeepsType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.csv")
	repo := store.NewCustomerRepository(path)

	require.NoError(t, repo.Add(&domain.Customer{
		ID: "CUS-1", Name: "Binh", Type: domain.CustomerWholesale,
	}))
	require.NoError(t, repo.Save())

	reloaded := store.NewCustomerRepository(path)
	require.NoError(t, reloaded.Load())
	got, err := reloaded.FindByID("CUS-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerWholesale, got.Type)
}

func TestPartnerSearch(t *testing.T) {
	repo := store.NewSupplierRepository(filepath.Join(t.TempDir(), "suppliers.csv"))
	require.NoError(t, repo.Add(&domain.Supplier{ID: "SUP-1", Name: "Hà Nội Trading"}))
	require.NoError(t, repo.Add(&domain.Supplier{ID: "SUP-2", Name: "Acme"}))

	assert.Len(t, repo.Search("ha noi"), 1)
	assert.Len(t, repo.Search("ACME"), 1)
	assert.Empty(t, repo.Search("saigon"))
}
