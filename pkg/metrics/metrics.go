// Package metrics keeps operational gauges and stock time series in an
// embedded tstorage instance under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the metrics store under workdir/metrics. Safe to call
// once at startup; subsequent gauge writes are no-ops until initialized.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// SetGauge records a single point on the named metric.
func SetGauge(name string, value int64) {
	insert(name, nil, float64(value))
}

// RecordStockLevel records a product's on-hand quantity as a labeled
// series, one series per product id.
func RecordStockLevel(productID string, qty int) {
	insert("stock_level", []tstorage.Label{{Name: "product", Value: productID}}, float64(qty))
}

// StockHistory returns the recorded stock points for a product in
// [start, end].
func StockHistory(productID string, start, end time.Time) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return nil, nil
	}
	points, err := storage.Select("stock_level",
		[]tstorage.Label{{Name: "product", Value: productID}},
		start.Unix(), end.Unix())
	if err == tstorage.ErrNoDataPoints {
		return nil, nil
	}
	return points, err
}

func insert(name string, labels []tstorage.Label, value float64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{{
		Metric: name,
		Labels: labels,
		DataPoint: tstorage.DataPoint{
			Timestamp: time.Now().Unix(),
			Value:     value,
		},
	}})
}

// Close flushes and closes the metrics store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
