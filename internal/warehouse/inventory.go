package warehouse

import (
	"time"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/pkg/metrics"
)

// DefaultLowStockThreshold flags products running out when no threshold
// is configured.
const DefaultLowStockThreshold = 10

// InventoryCheck is the read-only aggregation handed to presentation.
type InventoryCheck struct {
	Date          time.Time         `json:"date"`
	TotalProducts int               `json:"total_products"`
	TotalUnits    int64             `json:"total_units"`
	Threshold     int               `json:"threshold"`
	Products      []*domain.Product `json:"products"`
	LowStock      []*domain.Product `json:"low_stock"`
}

// PerformInventoryCheck snapshots the catalog: distinct product count,
// total unit count and the products under the low-stock threshold. No
// mutation.
func (s *Service) PerformInventoryCheck(threshold int) *InventoryCheck {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	products := s.products.FindAll()

	var units int64
	for _, p := range products {
		units += int64(p.StockQuantity)
	}

	check := &InventoryCheck{
		Date:          s.clock(),
		TotalProducts: len(products),
		TotalUnits:    units,
		Threshold:     threshold,
		Products:      products,
		LowStock:      s.products.LowStock(threshold),
	}

	metrics.SetGauge("inventory_products", int64(check.TotalProducts))
	metrics.SetGauge("inventory_units", check.TotalUnits)
	return check
}

// ScanLowStock publishes a stock.low event for every product under the
// threshold. Called from the scheduler.
func (s *Service) ScanLowStock(threshold int) []*domain.Product {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	low := s.products.LowStock(threshold)
	for _, p := range low {
		s.publish(TopicStockLow, p)
	}
	return low
}

// LoadAll loads every repository in dependency order: products and
// partners first, then orders, which resolve references against them.
func (s *Service) LoadAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.products.Load(); err != nil {
		return err
	}
	if err := s.suppliers.Load(); err != nil {
		return err
	}
	if err := s.customers.Load(); err != nil {
		return err
	}
	return s.orders.Load()
}

// SaveAll rewrites every backing file from current in-memory state.
func (s *Service) SaveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.products.Save(); err != nil {
		return err
	}
	if err := s.suppliers.Save(); err != nil {
		return err
	}
	if err := s.customers.Save(); err != nil {
		return err
	}
	return s.orders.Save()
}
