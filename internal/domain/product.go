package domain

import "time"

// ProductType discriminates the product variants. Shared fields live on
// Product; variant-specific attributes live in Attrs and are interpreted
// according to the type.
type ProductType string

const (
	ProductGeneric     ProductType = "GENERIC"
	ProductElectronics ProductType = "ELECTRONICS"
	ProductClothing    ProductType = "CLOTHING"
	ProductFood        ProductType = "FOOD"
	ProductFurniture   ProductType = "FURNITURE"
)

// ProductAttrs holds the variant-specific payload. Only the fields
// relevant to the product's type are meaningful.
type ProductAttrs struct {
	WarrantyMonths int       `json:"warranty_months,omitempty"` // ELECTRONICS
	Size           string    `json:"size,omitempty"`            // CLOTHING
	Material       string    `json:"material,omitempty"`        // CLOTHING
	ExpiryDate     time.Time `json:"expiry_date,omitempty"`     // FOOD
	Dimensions     string    `json:"dimensions,omitempty"`      // FURNITURE
	WeightKg       float64   `json:"weight_kg,omitempty"`       // FURNITURE
}

// Product is a catalog item plus its stock ledger. StockQuantity is
// mutated only through IncreaseStock/DecreaseStock; order processing
// never writes it directly.
type Product struct {
	ID            string       `json:"id"`
	Type          ProductType  `json:"type"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	ImportPrice   float64      `json:"import_price"`
	SalePrice     float64      `json:"sale_price"`
	StockQuantity int          `json:"stock_quantity"`
	Attrs         ProductAttrs `json:"attrs"`
}

// profitFactors adjusts the raw margin per product type.
var profitFactors = map[ProductType]float64{
	ProductGeneric:     1.0,
	ProductElectronics: 0.9,
	ProductClothing:    1.1,
	ProductFood:        0.8,
	ProductFurniture:   1.05,
}

// HasEnoughStock reports whether qty units can be taken from stock.
// Pure check, no side effect.
func (p *Product) HasEnoughStock(qty int) bool {
	return qty <= p.StockQuantity
}

// IncreaseStock adds qty units. qty must be positive; there is no upper
// bound.
func (p *Product) IncreaseStock(qty int) error {
	if qty <= 0 {
		return &QuantityError{Quantity: qty}
	}
	p.StockQuantity += qty
	return nil
}

// DecreaseStock removes qty units. This is the only way stock decreases,
// so the non-negativity invariant holds system-wide as long as every
// outbound path routes through here.
func (p *Product) DecreaseStock(qty int) error {
	if qty <= 0 {
		return &QuantityError{Quantity: qty}
	}
	if !p.HasEnoughStock(qty) {
		return &OutOfStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   qty,
			Available:   p.StockQuantity,
		}
	}
	p.StockQuantity -= qty
	return nil
}

// EstimatedProfit projects the margin over the current stock, weighted by
// the per-type factor.
func (p *Product) EstimatedProfit() float64 {
	factor, ok := profitFactors[p.Type]
	if !ok {
		factor = 1.0
	}
	return (p.SalePrice - p.ImportPrice) * float64(p.StockQuantity) * factor
}

// StockValue is the inventory valuation at import price.
func (p *Product) StockValue() float64 {
	return float64(p.StockQuantity) * p.ImportPrice
}

// Clone returns an independent copy so repository snapshots cannot be
// used to bypass the ledger.
func (p *Product) Clone() *Product {
	cp := *p
	return &cp
}
