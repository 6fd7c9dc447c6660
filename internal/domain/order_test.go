package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockd/stockd/internal/domain"
)

func testDate() time.Time {
	return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
}

func TestOrderTotalFollowsItems(t *testing.T) {
	laptop := &domain.Product{ID: "PRD-1", Name: "Laptop"}
	mouse := &domain.Product{ID: "PRD-2", Name: "Mouse"}

	o := domain.NewImportOrder("IMP-1", testDate(), &domain.Supplier{ID: "SUP-1"}, "HCM-A")
	assert.Zero(t, o.Total)

	o.AddItem(domain.OrderItem{Product: laptop, Quantity: 2, UnitPrice: 1000})
	o.AddItem(domain.OrderItem{Product: mouse, Quantity: 5, UnitPrice: 20})
	assert.InDelta(t, 2100, o.Total, 0.001)

	o.RemoveItem(domain.OrderItem{Product: mouse, Quantity: 5})
	assert.InDelta(t, 2000, o.Total, 0.001)
	assert.Len(t, o.Items, 1)
}

func TestOrderItemSubtotal(t *testing.T) {
	it := domain.OrderItem{Quantity: 3, UnitPrice: 12.5}
	assert.InDelta(t, 37.5, it.Subtotal(), 0.001)
}

func TestOrderLifecycleIsOneWay(t *testing.T) {
	o := domain.NewExportOrder("EXP-1", testDate(), &domain.Customer{ID: "CUS-1"}, "12 Nguyen Hue")
	require.Equal(t, domain.StatusPending, o.Status)

	require.NoError(t, o.Confirm())
	assert.Equal(t, domain.StatusCompleted, o.Status)

	assert.ErrorIs(t, o.Confirm(), domain.ErrInvalidOrderState)
	assert.ErrorIs(t, o.Cancel(), domain.ErrInvalidOrderState)
	assert.Equal(t, domain.StatusCompleted, o.Status)
}

func TestCancelPendingOrder(t *testing.T) {
	o := domain.NewImportOrder("IMP-1", testDate(), &domain.Supplier{ID: "SUP-1"}, "HCM-A")

	require.NoError(t, o.Cancel())
	assert.Equal(t, domain.StatusCancelled, o.Status)

	assert.ErrorIs(t, o.Confirm(), domain.ErrInvalidOrderState)
	assert.ErrorIs(t, o.Cancel(), domain.ErrInvalidOrderState)
}

func TestNewOrdersCarryVariantFields(t *testing.T) {
	imp := domain.NewImportOrder("IMP-1", testDate(), &domain.Supplier{ID: "SUP-1"}, "HCM-A")
	assert.Equal(t, domain.OrderImport, imp.Type)
	assert.Equal(t, "HCM-A", imp.WarehouseLocation)
	assert.Nil(t, imp.Customer)

	exp := domain.NewExportOrder("EXP-1", testDate(), &domain.Customer{ID: "CUS-1"}, "12 Nguyen Hue")
	assert.Equal(t, domain.OrderExport, exp.Type)
	assert.Equal(t, "12 Nguyen Hue", exp.DeliveryAddress)
	assert.Nil(t, exp.Supplier)
}
