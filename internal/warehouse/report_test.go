package warehouse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockd/stockd/internal/domain"
)

func newTestReporter(t *testing.T, env *testEnv) *Reporter {
	t.Helper()
	r := NewReporter(env.products, env.orders)
	r.clock = func() time.Time { return time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC) }
	return r
}

func seedCatalog(t *testing.T, env *testEnv) {
	t.Helper()
	products := []*domain.Product{
		{ID: "PRD-1", Type: domain.ProductElectronics, Name: "Laptop",
			ImportPrice: 800, SalePrice: 1200, StockQuantity: 2},
		{ID: "PRD-2", Type: domain.ProductElectronics, Name: "Mouse",
			ImportPrice: 5, SalePrice: 10, StockQuantity: 100},
		{ID: "PRD-3", Type: domain.ProductClothing, Name: "Shirt",
			ImportPrice: 4, SalePrice: 9, StockQuantity: 50},
	}
	for _, p := range products {
		require.NoError(t, env.products.Add(p))
	}
}

func TestInventorySummaryGroupsByType(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	r := newTestReporter(t, env)

	summary, err := r.InventorySummary()
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)

	clothing := summary.Rows[0]
	assert.Equal(t, string(domain.ProductClothing), clothing.Type)
	assert.Equal(t, 1, clothing.Products)
	assert.Equal(t, 50, clothing.Units)
	assert.InDelta(t, 200, clothing.StockValue, 0.001)

	electronics := summary.Rows[1]
	assert.Equal(t, string(domain.ProductElectronics), electronics.Type)
	assert.Equal(t, 2, electronics.Products)
	assert.Equal(t, 102, electronics.Units)
	assert.InDelta(t, 2100, electronics.StockValue, 0.001)

	assert.InDelta(t, 2300, summary.TotalValue, 0.001)
}

func TestInventorySummaryEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	r := newTestReporter(t, env)

	summary, err := r.InventorySummary()
	require.NoError(t, err)
	assert.Empty(t, summary.Rows)
	assert.Zero(t, summary.TotalValue)
}

func seedOrders(t *testing.T, env *testEnv) {
	t.Helper()
	require.NoError(t, env.suppliers.Add(&domain.Supplier{ID: "SUP-1", Name: "Acme"}))
	require.NoError(t, env.customers.Add(&domain.Customer{ID: "CUS-1", Name: "Binh"}))

	imp, err := env.service.CreateImportOrder("SUP-1", "HCM-A",
		[]ItemRequest{{ProductID: "PRD-2", Quantity: 40, UnitPrice: 5}})
	require.NoError(t, err)
	require.NoError(t, env.service.ConfirmImport(imp.ID))

	exp1, err := env.service.CreateExportOrder("CUS-1", "12 Nguyen Hue",
		[]ItemRequest{{ProductID: "PRD-2", Quantity: 30, UnitPrice: 10}})
	require.NoError(t, err)
	require.NoError(t, env.service.ConfirmExport(exp1.ID))

	exp2, err := env.service.CreateExportOrder("CUS-1", "12 Nguyen Hue",
		[]ItemRequest{{ProductID: "PRD-3", Quantity: 10, UnitPrice: 9}})
	require.NoError(t, err)
	require.NoError(t, env.service.ConfirmExport(exp2.ID))

	// Pending order: counted by flow, excluded from money totals.
	_, err = env.service.CreateExportOrder("CUS-1", "12 Nguyen Hue",
		[]ItemRequest{{ProductID: "PRD-1", Quantity: 1, UnitPrice: 1200}})
	require.NoError(t, err)
}

func TestFlowSummary(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	seedOrders(t, env)
	r := newTestReporter(t, env)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	flow := r.FlowSummary(from, to)

	assert.Equal(t, 1, flow.ImportCount)
	assert.InDelta(t, 200, flow.ImportTotal, 0.001)
	assert.Equal(t, 3, flow.ExportCount)
	assert.InDelta(t, 390, flow.ExportTotal, 0.001)
	assert.Equal(t, 3, flow.ProductKinds)
}

func TestRevenueReport(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	seedOrders(t, env)
	r := newTestReporter(t, env)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	report := r.RevenueReport(from, to)

	assert.Equal(t, 2, report.OrderCount)
	assert.InDelta(t, 390, report.Revenue, 0.001)
	// 30 mice at import price 5 plus 10 shirts at import price 4.
	assert.InDelta(t, 190, report.Cost, 0.001)
	assert.InDelta(t, 200, report.Profit, 0.001)
	assert.InDelta(t, 195, report.MeanOrderValue, 0.001)
	assert.InDelta(t, 195, report.MedianOrderValue, 0.001)
}

func TestTopSellingProducts(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	seedOrders(t, env)
	r := newTestReporter(t, env)

	top := r.TopSellingProducts(10)
	require.Len(t, top, 2)
	assert.Equal(t, "PRD-2", top[0].ProductID)
	assert.Equal(t, 30, top[0].UnitsSold)
	assert.Equal(t, "PRD-3", top[1].ProductID)
	assert.Equal(t, 10, top[1].UnitsSold)

	assert.Len(t, r.TopSellingProducts(1), 1)
}

func TestSeasonalTrend(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	require.NoError(t, env.customers.Add(&domain.Customer{ID: "CUS-1", Name: "Binh"}))
	customer, err := env.customers.FindByID("CUS-1")
	require.NoError(t, err)
	product, err := env.products.FindByID("PRD-2")
	require.NoError(t, err)

	addExport := func(id string, date time.Time, qty int, confirm bool) {
		o := domain.NewExportOrder(id, date, customer, "12 Nguyen Hue")
		o.AddItem(domain.OrderItem{Product: product, Quantity: qty, UnitPrice: 10})
		if confirm {
			require.NoError(t, o.Confirm())
		}
		require.NoError(t, env.orders.Add(o))
	}

	addExport("EXP-1", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), 3, true)
	addExport("EXP-2", time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC), 4, true)
	addExport("EXP-3", time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC), 2, true)
	// Pending order: excluded from every bucket.
	addExport("EXP-4", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), 5, false)

	trend := newTestReporter(t, env).SeasonalTrend()
	require.Len(t, trend.Buckets, 4)

	spring := trend.Buckets[0]
	assert.Equal(t, "spring", spring.Season)
	assert.Equal(t, 1, spring.Orders)
	assert.Equal(t, 3, spring.Units)
	assert.InDelta(t, 30, spring.Revenue, 0.001)
	assert.InDelta(t, 30, spring.AvgOrder, 0.001)

	assert.Zero(t, trend.Buckets[1].Orders)

	autumn := trend.Buckets[2]
	assert.Equal(t, 2, autumn.Orders, "years fold into the same seasonal bucket")
	assert.Equal(t, 6, autumn.Units)
	assert.InDelta(t, 60, autumn.Revenue, 0.001)
	assert.InDelta(t, 30, autumn.AvgOrder, 0.001)

	assert.Zero(t, trend.Buckets[3].Orders, "pending orders do not count")
	assert.Equal(t, 3, trend.TotalOrders)
	assert.Equal(t, 9, trend.TotalUnits)
	assert.InDelta(t, 90, trend.TotalRevenue, 0.001)
}

func TestParseDateRange(t *testing.T) {
	env := newTestEnv(t)
	r := newTestReporter(t, env)

	from, to, err := r.ParseDateRange("2026-06-01", "2026-06-15")
	require.NoError(t, err)
	assert.Equal(t, 1, from.Day())
	assert.Equal(t, 15, to.Day())

	from, to, err = r.ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, to.Equal(r.clock()))
	assert.True(t, from.Equal(to.AddDate(0, -1, 0)))

	_, _, err = r.ParseDateRange("2026-07-01", "2026-06-01")
	assert.Error(t, err)

	_, _, err = r.ParseDateRange("garbage", "")
	assert.Error(t, err)
}

func TestExportInventoryCSV(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	r := newTestReporter(t, env)

	path := filepath.Join(t.TempDir(), "inventory.csv")
	require.NoError(t, r.ExportInventoryCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4, "header plus one row per product")
	assert.Contains(t, lines[0], "stock_value")
	assert.Contains(t, string(data), "PRD-1")
}
