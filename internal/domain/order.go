package domain

import "time"

// OrderType discriminates inbound and outbound orders.
type OrderType string

const (
	OrderImport OrderType = "IMPORT"
	OrderExport OrderType = "EXPORT"
)

// OrderStatus is the order lifecycle state. Transitions are one-way:
// PENDING is the only state that may move, and only to COMPLETED or
// CANCELLED.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderItem associates a product with a quantity and the unit price
// captured when the order was built. The captured price keeps historical
// totals stable when the catalog price changes later.
type OrderItem struct {
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
}

// Subtotal is quantity times the captured unit price.
func (it OrderItem) Subtotal() float64 {
	return float64(it.Quantity) * it.UnitPrice
}

// Order is the aggregate for both order variants. IMPORT orders carry a
// supplier and warehouse location; EXPORT orders carry a customer and
// delivery address.
type Order struct {
	ID     string      `json:"id"`
	Type   OrderType   `json:"type"`
	Date   time.Time   `json:"date"`
	Status OrderStatus `json:"status"`
	Total  float64     `json:"total"`
	Items  []OrderItem `json:"items"`

	Supplier          *Supplier `json:"supplier,omitempty"`
	WarehouseLocation string    `json:"warehouse_location,omitempty"`

	Customer        *Customer `json:"customer,omitempty"`
	DeliveryAddress string    `json:"delivery_address,omitempty"`
}

// NewImportOrder builds a PENDING inbound order. The id comes from the
// caller's generator so creation is reproducible in tests.
func NewImportOrder(id string, date time.Time, supplier *Supplier, location string) *Order {
	return &Order{
		ID:                id,
		Type:              OrderImport,
		Date:              date,
		Status:            StatusPending,
		Supplier:          supplier,
		WarehouseLocation: location,
	}
}

// NewExportOrder builds a PENDING outbound order.
func NewExportOrder(id string, date time.Time, customer *Customer, address string) *Order {
	return &Order{
		ID:              id,
		Type:            OrderExport,
		Date:            date,
		Status:          StatusPending,
		Customer:        customer,
		DeliveryAddress: address,
	}
}

// AddItem appends a line item and recomputes the total.
func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
	o.recalcTotal()
}

// RemoveItem drops the first line item matching product id and quantity,
// then recomputes the total.
func (o *Order) RemoveItem(item OrderItem) {
	for i, it := range o.Items {
		if it.Product != nil && item.Product != nil &&
			it.Product.ID == item.Product.ID && it.Quantity == item.Quantity {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			break
		}
	}
	o.recalcTotal()
}

// recalcTotal keeps Total equal to the sum of item subtotals. Called on
// every item mutation, never on read.
func (o *Order) recalcTotal() {
	var total float64
	for _, it := range o.Items {
		total += it.Subtotal()
	}
	o.Total = total
}

// Confirm moves the order to COMPLETED. Only PENDING orders may be
// confirmed; terminal states are rejected, never silently ignored.
func (o *Order) Confirm() error {
	if o.Status != StatusPending {
		return &StateError{OrderID: o.ID, Status: o.Status, Op: "confirm"}
	}
	o.Status = StatusCompleted
	return nil
}

// Cancel moves the order to CANCELLED. Cancelling a terminal order is
// rejected: a COMPLETED order's stock effects have already happened and
// would not be reversed.
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return &StateError{OrderID: o.ID, Status: o.Status, Op: "cancel"}
	}
	o.Status = StatusCancelled
	return nil
}
