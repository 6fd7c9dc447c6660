package warehouse

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/go-gota/gota/dataframe"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/internal/store"
)

// Reporter builds plain aggregates for the presentation layer. It never
// formats prose; callers render the numbers however they like.
type Reporter struct {
	products *store.ProductRepository
	orders   *store.OrderRepository
	clock    func() time.Time
}

func NewReporter(products *store.ProductRepository, orders *store.OrderRepository) *Reporter {
	return &Reporter{products: products, orders: orders, clock: time.Now}
}

// TypeSummary aggregates the catalog per product type.
type TypeSummary struct {
	Type       string  `json:"type"`
	Products   int     `json:"products"`
	Units      int     `json:"units"`
	StockValue float64 `json:"stock_value"`
}

// InventorySummary is the per-type stock valuation report.
type InventorySummary struct {
	Date       time.Time     `json:"date"`
	Rows       []TypeSummary `json:"rows"`
	TotalValue float64       `json:"total_value"`
}

type inventoryFrameRow struct {
	Type  string  `dataframe:"type"`
	Units int     `dataframe:"units"`
	Value float64 `dataframe:"value"`
}

// InventorySummary groups current stock by product type and values it at
// import price.
func (r *Reporter) InventorySummary() (*InventorySummary, error) {
	products := r.products.FindAll()
	summary := &InventorySummary{Date: r.clock(), Rows: []TypeSummary{}}
	if len(products) == 0 {
		return summary, nil
	}

	frameRows := make([]inventoryFrameRow, len(products))
	for i, p := range products {
		frameRows[i] = inventoryFrameRow{
			Type:  string(p.Type),
			Units: p.StockQuantity,
			Value: p.StockValue(),
		}
	}

	df := dataframe.LoadStructs(frameRows)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "load inventory frame")
	}
	agg := df.GroupBy("type").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_SUM, dataframe.Aggregation_COUNT},
		[]string{"units", "value", "value"},
	)
	if agg.Err != nil {
		return nil, errors.Wrap(agg.Err, "aggregate inventory frame")
	}

	for _, m := range agg.Maps() {
		row := TypeSummary{
			Type:       cast.ToString(m["type"]),
			Products:   cast.ToInt(m["value_COUNT"]),
			Units:      cast.ToInt(m["units_SUM"]),
			StockValue: cast.ToFloat64(m["value_SUM"]),
		}
		summary.Rows = append(summary.Rows, row)
		summary.TotalValue += row.StockValue
	}
	sort.Slice(summary.Rows, func(i, j int) bool { return summary.Rows[i].Type < summary.Rows[j].Type })
	return summary, nil
}

// FlowSummary aggregates import and export activity over a date range
// plus the inventory position at report time.
type FlowSummary struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	ImportCount    int       `json:"import_count"`
	ImportTotal    float64   `json:"import_total"`
	ExportCount    int       `json:"export_count"`
	ExportTotal    float64   `json:"export_total"`
	ProductKinds   int       `json:"product_kinds"`
	InventoryValue float64   `json:"inventory_value"`
}

// FlowSummary totals count every order in range; monetary totals count
// only COMPLETED orders, since pending and cancelled orders have had no
// stock effect.
func (r *Reporter) FlowSummary(from, to time.Time) *FlowSummary {
	summary := &FlowSummary{From: from, To: to}

	imports := r.orders.ByDateRange(domain.OrderImport, from, to)
	summary.ImportCount = len(imports)
	for _, o := range imports {
		if o.Status == domain.StatusCompleted {
			summary.ImportTotal += o.Total
		}
	}

	exports := r.orders.ByDateRange(domain.OrderExport, from, to)
	summary.ExportCount = len(exports)
	for _, o := range exports {
		if o.Status == domain.StatusCompleted {
			summary.ExportTotal += o.Total
		}
	}

	for _, p := range r.products.FindAll() {
		summary.ProductKinds++
		summary.InventoryValue += p.StockValue()
	}
	return summary
}

// RevenueReport summarizes completed export orders over a date range.
type RevenueReport struct {
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	Revenue          float64   `json:"revenue"`
	Cost             float64   `json:"cost"`
	Profit           float64   `json:"profit"`
	MarginPct        float64   `json:"margin_pct"`
	OrderCount       int       `json:"order_count"`
	MeanOrderValue   float64   `json:"mean_order_value"`
	MedianOrderValue float64   `json:"median_order_value"`
}

func (r *Reporter) RevenueReport(from, to time.Time) *RevenueReport {
	report := &RevenueReport{From: from, To: to}
	values := []float64{}

	for _, o := range r.orders.ByDateRange(domain.OrderExport, from, to) {
		if o.Status != domain.StatusCompleted {
			continue
		}
		report.OrderCount++
		report.Revenue += o.Total
		values = append(values, o.Total)
		for _, it := range o.Items {
			if it.Product != nil {
				report.Cost += it.Product.ImportPrice * float64(it.Quantity)
			}
		}
	}

	report.Profit = report.Revenue - report.Cost
	if report.Revenue > 0 {
		report.MarginPct = report.Profit / report.Revenue * 100
	}
	if len(values) > 0 {
		report.MeanOrderValue, _ = stats.Mean(values)
		report.MedianOrderValue, _ = stats.Median(values)
	}
	return report
}

// ProductSales is a top-selling entry: completed export volume per
// product.
type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

// TopSellingProducts returns the n products with the highest completed
// export volume, ties broken by product id.
func (r *Reporter) TopSellingProducts(n int) []ProductSales {
	sold := map[string]*ProductSales{}
	for _, o := range r.orders.FindAll(domain.OrderExport) {
		if o.Status != domain.StatusCompleted {
			continue
		}
		for _, it := range o.Items {
			if it.Product == nil {
				continue
			}
			entry, ok := sold[it.Product.ID]
			if !ok {
				entry = &ProductSales{ProductID: it.Product.ID, Name: it.Product.Name}
				sold[it.Product.ID] = entry
			}
			entry.UnitsSold += it.Quantity
		}
	}

	out := make([]ProductSales, 0, len(sold))
	for _, e := range sold {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SeasonBucket aggregates completed export activity over one quarter of
// the calendar year.
type SeasonBucket struct {
	Season   string  `json:"season"`
	Months   string  `json:"months"`
	Orders   int     `json:"orders"`
	Units    int     `json:"units"`
	Revenue  float64 `json:"revenue"`
	AvgOrder float64 `json:"avg_order"`
}

// SeasonalTrend is the year-round sales-trend report.
type SeasonalTrend struct {
	Buckets      []SeasonBucket `json:"buckets"`
	TotalOrders  int            `json:"total_orders"`
	TotalUnits   int            `json:"total_units"`
	TotalRevenue float64        `json:"total_revenue"`
}

// SeasonalTrend buckets every completed export order by the quarter of
// its order date, regardless of year. Pending and cancelled orders are
// excluded, as everywhere money is totalled.
func (r *Reporter) SeasonalTrend() *SeasonalTrend {
	trend := &SeasonalTrend{Buckets: []SeasonBucket{
		{Season: "spring", Months: "1-3"},
		{Season: "summer", Months: "4-6"},
		{Season: "autumn", Months: "7-9"},
		{Season: "winter", Months: "10-12"},
	}}

	for _, o := range r.orders.FindAll(domain.OrderExport) {
		if o.Status != domain.StatusCompleted {
			continue
		}
		b := &trend.Buckets[(int(o.Date.Month())-1)/3]
		b.Orders++
		b.Revenue += o.Total
		for _, it := range o.Items {
			b.Units += it.Quantity
		}
	}

	for i := range trend.Buckets {
		b := &trend.Buckets[i]
		if b.Orders > 0 {
			b.AvgOrder = b.Revenue / float64(b.Orders)
		}
		trend.TotalOrders += b.Orders
		trend.TotalUnits += b.Units
		trend.TotalRevenue += b.Revenue
	}
	return trend
}

// ParseDateRange parses flexible from/to query values. An empty from
// defaults to one month before to; an empty to defaults to now.
func (r *Reporter) ParseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	to := r.clock()
	if toStr != "" {
		parsed, err := dateparse.ParseAny(toStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(err, "parse to date %q", toStr)
		}
		to = parsed
	}
	from := to.AddDate(0, -1, 0)
	if fromStr != "" {
		parsed, err := dateparse.ParseAny(fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(err, "parse from date %q", fromStr)
		}
		from = parsed
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, errors.Errorf("from %s is after to %s", from, to)
	}
	return from, to, nil
}

type inventoryExportRow struct {
	ID          string `csv:"id"`
	Type        string `csv:"type"`
	Name        string `csv:"name"`
	Category    string `csv:"category"`
	Stock       int    `csv:"stock"`
	ImportPrice string `csv:"import_price"`
	SalePrice   string `csv:"sale_price"`
	StockValue  string `csv:"stock_value"`
}

func (r *Reporter) inventoryExportRows() []inventoryExportRow {
	products := r.products.FindAll()
	rows := make([]inventoryExportRow, len(products))
	for i, p := range products {
		rows[i] = inventoryExportRow{
			ID:          p.ID,
			Type:        string(p.Type),
			Name:        p.Name,
			Category:    p.Category,
			Stock:       p.StockQuantity,
			ImportPrice: fmt.Sprintf("%.0f", p.ImportPrice),
			SalePrice:   fmt.Sprintf("%.0f", p.SalePrice),
			StockValue:  fmt.Sprintf("%.0f", p.StockValue()),
		}
	}
	return rows
}

// ExportInventoryCSV writes the per-product inventory detail to a CSV
// file.
func (r *Reporter) ExportInventoryCSV(path string) error {
	rows := r.inventoryExportRows()
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return errors.Wrap(err, "encode inventory csv")
	}
	return writeFile(path, []byte(out))
}

// ExportInventoryXLSX writes the per-product inventory detail to an
// Excel workbook.
func (r *Reporter) ExportInventoryXLSX(path string) error {
	headers := []string{"ID", "Type", "Name", "Category", "Stock", "Import Price", "Sale Price", "Stock Value"}
	xlsx := excelize.NewFile()
	for col, h := range headers {
		xlsx.SetCellValue("Sheet1", cellAxis(col, 1), h)
	}
	for i, row := range r.inventoryExportRows() {
		values := []interface{}{row.ID, row.Type, row.Name, row.Category, row.Stock,
			row.ImportPrice, row.SalePrice, row.StockValue}
		for col, v := range values {
			xlsx.SetCellValue("Sheet1", cellAxis(col, i+2), v)
		}
	}
	return xlsx.SaveAs(path)
}

func cellAxis(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(domain.ErrStorage, "write %s: %v", path, err)
	}
	return nil
}
