package store

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/stockd/stockd/internal/domain"
)

type importOrderRecord struct {
	ID                string `csv:"id"`
	SupplierID        string `csv:"supplier_id"`
	Date              string `csv:"date"`
	TotalAmount       string `csv:"total_amount"`
	Status            string `csv:"status"`
	WarehouseLocation string `csv:"warehouse_location"`
}

type exportOrderRecord struct {
	ID              string `csv:"id"`
	CustomerID      string `csv:"customer_id"`
	Date            string `csv:"date"`
	TotalAmount     string `csv:"total_amount"`
	Status          string `csv:"status"`
	DeliveryAddress string `csv:"delivery_address"`
}

type orderItemRecord struct {
	OrderID   string `csv:"order_id"`
	ProductID string `csv:"product_id"`
	Quantity  int    `csv:"quantity"`
	UnitPrice string `csv:"unit_price"`
}

// OrderRepository owns both order collections plus the item association
// rows. Load resolves cross-references by id against the sibling
// repositories, so products, suppliers and customers must be loaded
// before orders. That is the one load-order dependency callers must
// respect.
type OrderRepository struct {
	importsPath string
	exportsPath string
	itemsPath   string

	products  *ProductRepository
	suppliers *SupplierRepository
	customers *CustomerRepository

	imports *collection[*domain.Order]
	exports *collection[*domain.Order]
}

func NewOrderRepository(dir string, products *ProductRepository,
	suppliers *SupplierRepository, customers *CustomerRepository) *OrderRepository {
	return &OrderRepository{
		importsPath: filepath.Join(dir, "import_orders.csv"),
		exportsPath: filepath.Join(dir, "export_orders.csv"),
		itemsPath:   filepath.Join(dir, "order_items.csv"),
		products:    products,
		suppliers:   suppliers,
		customers:   customers,
		imports:     newCollection[*domain.Order]("import order"),
		exports:     newCollection[*domain.Order]("export order"),
	}
}

func (r *OrderRepository) byType(t domain.OrderType) *collection[*domain.Order] {
	if t == domain.OrderImport {
		return r.imports
	}
	return r.exports
}

func (r *OrderRepository) Add(o *domain.Order) error {
	if o.ID == "" {
		return domain.NewNotFound(string(o.Type), "(empty id)")
	}
	return r.byType(o.Type).add(o.ID, o)
}

func (r *OrderRepository) Update(o *domain.Order) error {
	return r.byType(o.Type).update(o.ID, o)
}

func (r *OrderRepository) Delete(t domain.OrderType, id string) error {
	return r.byType(t).delete(id)
}

// FindByID returns the stored order. The service borrows the reference
// for the duration of a call; it is not a defensive copy.
func (r *OrderRepository) FindByID(t domain.OrderType, id string) (*domain.Order, error) {
	o, ok := r.byType(t).get(id)
	if !ok {
		kind := "import order"
		if t == domain.OrderExport {
			kind = "export order"
		}
		return nil, domain.NewNotFound(kind, id)
	}
	return o, nil
}

func (r *OrderRepository) FindAll(t domain.OrderType) []*domain.Order {
	return r.byType(t).all()
}

// Search matches orders of either type on id, partner name, location or
// address.
func (r *OrderRepository) Search(keyword string) []*domain.Order {
	out := []*domain.Order{}
	for _, o := range append(r.imports.all(), r.exports.all()...) {
		if foldContains(o.ID, keyword) || foldContains(o.WarehouseLocation, keyword) ||
			foldContains(o.DeliveryAddress, keyword) ||
			(o.Supplier != nil && foldContains(o.Supplier.Name, keyword)) ||
			(o.Customer != nil && foldContains(o.Customer.Name, keyword)) {
			out = append(out, o)
		}
	}
	return out
}

// ByDateRange returns orders of the given type dated within [from, to],
// inclusive on both ends.
func (r *OrderRepository) ByDateRange(t domain.OrderType, from, to time.Time) []*domain.Order {
	out := []*domain.Order{}
	for _, o := range r.byType(t).all() {
		d := o.Date
		if (d.Equal(from) || d.After(from)) && (d.Equal(to) || d.Before(to)) {
			out = append(out, o)
		}
	}
	return out
}

func (r *OrderRepository) Count(t domain.OrderType) int { return r.byType(t).len() }

// Load replaces both order collections from the backing files and
// resolves supplier, customer and product references against the sibling
// repositories.
func (r *OrderRepository) Load() error {
	importRows, err := readRecords[importOrderRecord](r.importsPath)
	if err != nil {
		return err
	}
	exportRows, err := readRecords[exportOrderRecord](r.exportsPath)
	if err != nil {
		return err
	}
	itemRows, err := readRecords[orderItemRecord](r.itemsPath)
	if err != nil {
		return err
	}

	r.imports.clear()
	r.exports.clear()

	for _, rec := range importRows {
		supplier, err := r.suppliers.FindByID(rec.SupplierID)
		if err != nil {
			return &domain.DanglingReferenceError{Kind: "supplier", ID: rec.SupplierID, RefBy: rec.ID}
		}
		o, err := orderFromRecord(rec.ID, domain.OrderImport, rec.Date, rec.TotalAmount, rec.Status)
		if err != nil {
			return err
		}
		o.Supplier = supplier
		o.WarehouseLocation = rec.WarehouseLocation
		if err := r.imports.add(o.ID, o); err != nil {
			return err
		}
	}

	for _, rec := range exportRows {
		customer, err := r.customers.FindByID(rec.CustomerID)
		if err != nil {
			return &domain.DanglingReferenceError{Kind: "customer", ID: rec.CustomerID, RefBy: rec.ID}
		}
		o, err := orderFromRecord(rec.ID, domain.OrderExport, rec.Date, rec.TotalAmount, rec.Status)
		if err != nil {
			return err
		}
		o.Customer = customer
		o.DeliveryAddress = rec.DeliveryAddress
		if err := r.exports.add(o.ID, o); err != nil {
			return err
		}
	}

	for _, rec := range itemRows {
		order, ok := r.imports.get(rec.OrderID)
		if !ok {
			if order, ok = r.exports.get(rec.OrderID); !ok {
				return &domain.DanglingReferenceError{Kind: "order", ID: rec.OrderID, RefBy: "order item"}
			}
		}
		product, err := r.products.FindByID(rec.ProductID)
		if err != nil {
			return &domain.DanglingReferenceError{Kind: "product", ID: rec.ProductID, RefBy: rec.OrderID}
		}
		unitPrice, err := parseMoney(rec.UnitPrice)
		if err != nil {
			return errors.Wrapf(domain.ErrStorage, "order item %s/%s: bad unit price %q",
				rec.OrderID, rec.ProductID, rec.UnitPrice)
		}
		order.AddItem(domain.OrderItem{Product: product, Quantity: rec.Quantity, UnitPrice: unitPrice})
	}
	return nil
}

func orderFromRecord(id string, t domain.OrderType, date, total, status string) (*domain.Order, error) {
	d, err := parseDate(date)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStorage, "order %s: bad date %q", id, date)
	}
	amount, err := parseMoney(total)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStorage, "order %s: bad total %q", id, total)
	}
	return &domain.Order{
		ID:     id,
		Type:   t,
		Date:   d,
		Status: domain.OrderStatus(status),
		Total:  amount,
	}, nil
}

// Save rewrites all three backing files wholesale.
func (r *OrderRepository) Save() error {
	imports := r.imports.all()
	exports := r.exports.all()

	importRows := make([]importOrderRecord, len(imports))
	itemRows := []orderItemRecord{}
	for i, o := range imports {
		supplierID := ""
		if o.Supplier != nil {
			supplierID = o.Supplier.ID
		}
		importRows[i] = importOrderRecord{
			ID:                o.ID,
			SupplierID:        supplierID,
			Date:              formatDate(o.Date),
			TotalAmount:       formatMoney(o.Total),
			Status:            string(o.Status),
			WarehouseLocation: o.WarehouseLocation,
		}
		itemRows = append(itemRows, itemRecords(o)...)
	}

	exportRows := make([]exportOrderRecord, len(exports))
	for i, o := range exports {
		customerID := ""
		if o.Customer != nil {
			customerID = o.Customer.ID
		}
		exportRows[i] = exportOrderRecord{
			ID:              o.ID,
			CustomerID:      customerID,
			Date:            formatDate(o.Date),
			TotalAmount:     formatMoney(o.Total),
			Status:          string(o.Status),
			DeliveryAddress: o.DeliveryAddress,
		}
		itemRows = append(itemRows, itemRecords(o)...)
	}

	if err := writeRecords(r.importsPath, importRows); err != nil {
		return err
	}
	if err := writeRecords(r.exportsPath, exportRows); err != nil {
		return err
	}
	return writeRecords(r.itemsPath, itemRows)
}

func itemRecords(o *domain.Order) []orderItemRecord {
	rows := make([]orderItemRecord, 0, len(o.Items))
	for _, it := range o.Items {
		productID := ""
		if it.Product != nil {
			productID = it.Product.ID
		}
		rows = append(rows, orderItemRecord{
			OrderID:   o.ID,
			ProductID: productID,
			Quantity:  it.Quantity,
			UnitPrice: formatMoney(it.UnitPrice),
		})
	}
	return rows
}
