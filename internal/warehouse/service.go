// Package warehouse orchestrates the order lifecycle: creation,
// confirmation and cancellation, plus the read-only inventory check.
// It is the only component that drives the stock ledger.
package warehouse

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/internal/store"
	"github.com/stockd/stockd/pkg/idgen"
	"github.com/stockd/stockd/pkg/metrics"
)

// Event topics published on the application bus.
const (
	TopicOrderCreated   = "order.created"
	TopicOrderCompleted = "order.completed"
	TopicOrderCancelled = "order.cancelled"
	TopicStockLow       = "stock.low"
)

// ItemRequest describes one requested order line. When UnitPrice is zero
// the catalog price is captured instead: the import price for inbound
// orders, the sale price for outbound ones.
type ItemRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Service is the warehouse transaction service. It borrows entity
// references from the repositories for the duration of a call and never
// caches them across calls.
//
// mu serializes logical operations: every mutating flow and every file
// save runs one at a time, so a read-modify-write sequence can never
// interleave with another writer or with the autosave job.
type Service struct {
	mu        sync.Mutex
	products  *store.ProductRepository
	suppliers *store.SupplierRepository
	customers *store.CustomerRepository
	orders    *store.OrderRepository
	ids       idgen.Generator
	bus       EventBus.Bus
	clock     func() time.Time
}

func NewService(products *store.ProductRepository, suppliers *store.SupplierRepository,
	customers *store.CustomerRepository, orders *store.OrderRepository,
	ids idgen.Generator, bus EventBus.Bus) *Service {
	return &Service{
		products:  products,
		suppliers: suppliers,
		customers: customers,
		orders:    orders,
		ids:       ids,
		bus:       bus,
		clock:     time.Now,
	}
}

// WithClock overrides the order-date clock (used in tests).
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

func (s *Service) publish(topic string, args ...interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, args...)
	}
}

// CreateImportOrder validates the supplier and items, then persists a
// PENDING inbound order. No stock mutation happens here; that is
// confirmation's job.
func (s *Service) CreateImportOrder(supplierID, warehouseLocation string, items []ItemRequest) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, err := s.suppliers.FindByID(supplierID)
	if err != nil {
		return nil, err
	}

	order := domain.NewImportOrder(s.ids.Next(idgen.PrefixImport), s.clock(), supplier, warehouseLocation)
	if err := s.attachItems(order, items, false); err != nil {
		return nil, err
	}

	if err := s.orders.Add(order); err != nil {
		return nil, err
	}
	if err := s.orders.Save(); err != nil {
		return nil, err
	}

	zap.L().Info("import order created",
		zap.String("order_id", order.ID),
		zap.String("supplier_id", supplierID),
		zap.Float64("total", order.Total))
	s.publish(TopicOrderCreated, order)
	return order, nil
}

// CreateExportOrder mirrors import creation but additionally checks
// stock availability for every item before the order is ever persisted.
func (s *Service) CreateExportOrder(customerID, deliveryAddress string, items []ItemRequest) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customers.FindByID(customerID)
	if err != nil {
		return nil, err
	}

	order := domain.NewExportOrder(s.ids.Next(idgen.PrefixExport), s.clock(), customer, deliveryAddress)
	if err := s.attachItems(order, items, true); err != nil {
		return nil, err
	}

	if err := s.orders.Add(order); err != nil {
		return nil, err
	}
	if err := s.orders.Save(); err != nil {
		return nil, err
	}

	zap.L().Info("export order created",
		zap.String("order_id", order.ID),
		zap.String("customer_id", customerID),
		zap.Float64("total", order.Total))
	s.publish(TopicOrderCreated, order)
	return order, nil
}

// attachItems validates the requested lines, captures unit prices and
// appends them to the order. checkStock enables the export-only
// availability pre-check.
func (s *Service) attachItems(order *domain.Order, items []ItemRequest, checkStock bool) error {
	if len(items) == 0 {
		return &domain.QuantityError{Reason: "order must contain at least one item"}
	}
	for _, req := range items {
		if req.Quantity <= 0 {
			return &domain.QuantityError{Quantity: req.Quantity}
		}
		product, err := s.products.FindByID(req.ProductID)
		if err != nil {
			return err
		}
		if checkStock && !product.HasEnoughStock(req.Quantity) {
			return &domain.OutOfStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   req.Quantity,
				Available:   product.StockQuantity,
			}
		}
		unitPrice := req.UnitPrice
		if unitPrice == 0 {
			if order.Type == domain.OrderImport {
				unitPrice = product.ImportPrice
			} else {
				unitPrice = product.SalePrice
			}
		}
		order.AddItem(domain.OrderItem{Product: product, Quantity: req.Quantity, UnitPrice: unitPrice})
	}
	return nil
}

// ConfirmImport applies an inbound order's stock effect and marks it
// COMPLETED. Stock increases are applied item by item; after
// creation-time quantity validation an increase cannot fail, so there is
// no rollback path here.
func (s *Service) ConfirmImport(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.FindByID(domain.OrderImport, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusPending {
		return &domain.StateError{OrderID: order.ID, Status: order.Status, Op: "confirm"}
	}

	for _, item := range order.Items {
		product, err := s.products.FindByID(item.Product.ID)
		if stderrors.Is(err, domain.ErrNotFound) {
			// Product vanished from the catalog since creation: re-add
			// it from the captured reference.
			product = item.Product.Clone()
			if err := product.IncreaseStock(item.Quantity); err != nil {
				return err
			}
			if err := s.products.Add(product); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := product.IncreaseStock(item.Quantity); err != nil {
			return err
		}
		if err := s.products.Update(product); err != nil {
			return err
		}
		metrics.RecordStockLevel(product.ID, product.StockQuantity)
	}

	if err := order.Confirm(); err != nil {
		return err
	}
	if err := s.orders.Update(order); err != nil {
		return err
	}
	if err := s.products.Save(); err != nil {
		return err
	}
	if err := s.orders.Save(); err != nil {
		return err
	}

	zap.L().Info("import order confirmed",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total))
	s.publish(TopicOrderCompleted, order)
	return nil
}

// ConfirmExport applies an outbound order's stock effect all-or-nothing:
// every item is re-validated against current stock before any decrease,
// because stock may have changed since creation.
func (s *Service) ConfirmExport(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.FindByID(domain.OrderExport, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusPending {
		return &domain.StateError{OrderID: order.ID, Status: order.Status, Op: "confirm"}
	}

	// Phase one: validate before mutating anything. Demand is summed
	// per product first so duplicate lines for the same product are
	// checked against stock as one total, not line by line.
	demand := map[string]int{}
	for _, item := range order.Items {
		demand[item.Product.ID] += item.Quantity
	}
	for _, item := range order.Items {
		total, pending := demand[item.Product.ID]
		if !pending {
			continue
		}
		delete(demand, item.Product.ID)
		product, err := s.products.FindByID(item.Product.ID)
		if err != nil {
			return err
		}
		if !product.HasEnoughStock(total) {
			return &domain.OutOfStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   total,
				Available:   product.StockQuantity,
			}
		}
	}

	// Phase two: apply.
	for _, item := range order.Items {
		product, err := s.products.FindByID(item.Product.ID)
		if err != nil {
			return err
		}
		if err := product.DecreaseStock(item.Quantity); err != nil {
			return err
		}
		if err := s.products.Update(product); err != nil {
			return err
		}
		metrics.RecordStockLevel(product.ID, product.StockQuantity)
	}

	if err := order.Confirm(); err != nil {
		return err
	}
	if err := s.orders.Update(order); err != nil {
		return err
	}
	if err := s.products.Save(); err != nil {
		return err
	}
	if err := s.orders.Save(); err != nil {
		return err
	}

	zap.L().Info("export order confirmed",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total))
	s.publish(TopicOrderCompleted, order)
	return nil
}

// CancelOrder moves a PENDING order to CANCELLED and persists it. No
// stock effect, even if the order was never confirmed. Terminal orders
// are rejected: cancelling a COMPLETED order would orphan its stock
// effects.
func (s *Service) CancelOrder(orderType domain.OrderType, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.FindByID(orderType, orderID)
	if err != nil {
		return err
	}
	if err := order.Cancel(); err != nil {
		return err
	}
	if err := s.orders.Update(order); err != nil {
		return err
	}
	if err := s.orders.Save(); err != nil {
		return err
	}

	zap.L().Info("order cancelled",
		zap.String("order_id", order.ID),
		zap.String("type", string(orderType)))
	s.publish(TopicOrderCancelled, order)
	return nil
}
