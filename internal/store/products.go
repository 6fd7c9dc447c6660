package store

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/stockd/stockd/internal/domain"
)

// productRecord is the flat row shape of the product store. The two
// trailing attribute columns hold the variant-specific fields so every
// row is the same width regardless of type:
//
//	ELECTRONICS: warranty months, -
//	CLOTHING:    size, material
//	FOOD:        expiry date, -
//	FURNITURE:   dimensions, weight
type productRecord struct {
	ID            string `csv:"id"`
	Type          string `csv:"type"`
	Name          string `csv:"name"`
	Category      string `csv:"category"`
	ImportPrice   string `csv:"import_price"`
	SalePrice     string `csv:"sale_price"`
	StockQuantity int    `csv:"stock_quantity"`
	Attr1         string `csv:"attr1"`
	Attr2         string `csv:"attr2"`
}

func productToRecord(p *domain.Product) productRecord {
	rec := productRecord{
		ID:            p.ID,
		Type:          string(p.Type),
		Name:          p.Name,
		Category:      p.Category,
		ImportPrice:   formatMoney(p.ImportPrice),
		SalePrice:     formatMoney(p.SalePrice),
		StockQuantity: p.StockQuantity,
	}
	switch p.Type {
	case domain.ProductElectronics:
		rec.Attr1 = cast.ToString(p.Attrs.WarrantyMonths)
	case domain.ProductClothing:
		rec.Attr1 = p.Attrs.Size
		rec.Attr2 = p.Attrs.Material
	case domain.ProductFood:
		rec.Attr1 = formatDate(p.Attrs.ExpiryDate)
	case domain.ProductFurniture:
		rec.Attr1 = p.Attrs.Dimensions
		rec.Attr2 = formatMoney(p.Attrs.WeightKg)
	}
	return rec
}

func productFromRecord(rec productRecord) (*domain.Product, error) {
	importPrice, err := parseMoney(rec.ImportPrice)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStorage, "product %s: bad import price %q", rec.ID, rec.ImportPrice)
	}
	salePrice, err := parseMoney(rec.SalePrice)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrStorage, "product %s: bad sale price %q", rec.ID, rec.SalePrice)
	}
	p := &domain.Product{
		ID:            rec.ID,
		Type:          domain.ProductType(rec.Type),
		Name:          rec.Name,
		Category:      rec.Category,
		ImportPrice:   importPrice,
		SalePrice:     salePrice,
		StockQuantity: rec.StockQuantity,
	}
	switch p.Type {
	case domain.ProductElectronics:
		p.Attrs.WarrantyMonths = cast.ToInt(rec.Attr1)
	case domain.ProductClothing:
		p.Attrs.Size = rec.Attr1
		p.Attrs.Material = rec.Attr2
	case domain.ProductFood:
		expiry, err := parseDate(rec.Attr1)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrStorage, "product %s: bad expiry date %q", rec.ID, rec.Attr1)
		}
		p.Attrs.ExpiryDate = expiry
	case domain.ProductFurniture:
		p.Attrs.Dimensions = rec.Attr1
		p.Attrs.WeightKg = cast.ToFloat64(rec.Attr2)
	}
	return p, nil
}

// ProductRepository owns the product collection and its backing file.
type ProductRepository struct {
	path string
	col  *collection[*domain.Product]
}

func NewProductRepository(path string) *ProductRepository {
	return &ProductRepository{path: path, col: newCollection[*domain.Product]("product")}
}

// Add appends a product with a unique, non-empty id.
func (r *ProductRepository) Add(p *domain.Product) error {
	if p.ID == "" {
		return domain.NewNotFound("product", "(empty id)")
	}
	return r.col.add(p.ID, p.Clone())
}

// Update replaces the record matching p.ID. New entities must use Add.
func (r *ProductRepository) Update(p *domain.Product) error {
	return r.col.update(p.ID, p.Clone())
}

func (r *ProductRepository) Delete(id string) error {
	return r.col.delete(id)
}

// FindByID returns a copy of the product; mutate it through the ledger
// and write it back with Update.
func (r *ProductRepository) FindByID(id string) (*domain.Product, error) {
	p, ok := r.col.get(id)
	if !ok {
		return nil, domain.NewNotFound("product", id)
	}
	return p.Clone(), nil
}

// FindAll returns a snapshot of every product in id order.
func (r *ProductRepository) FindAll() []*domain.Product {
	items := r.col.all()
	out := make([]*domain.Product, len(items))
	for i, p := range items {
		out[i] = p.Clone()
	}
	return out
}

// Search matches the keyword case- and accent-insensitively against id,
// name and category. Returns an empty slice when nothing matches.
func (r *ProductRepository) Search(keyword string) []*domain.Product {
	out := []*domain.Product{}
	for _, p := range r.col.all() {
		if foldContains(p.ID, keyword) || foldContains(p.Name, keyword) || foldContains(p.Category, keyword) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// LowStock returns products whose quantity is strictly below the
// threshold.
func (r *ProductRepository) LowStock(threshold int) []*domain.Product {
	out := []*domain.Product{}
	for _, p := range r.col.all() {
		if p.StockQuantity < threshold {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (r *ProductRepository) Count() int { return r.col.len() }

// Load replaces the in-memory collection from the backing file.
func (r *ProductRepository) Load() error {
	rows, err := readRecords[productRecord](r.path)
	if err != nil {
		return err
	}
	r.col.clear()
	for _, rec := range rows {
		p, err := productFromRecord(rec)
		if err != nil {
			return err
		}
		if err := r.col.add(p.ID, p); err != nil {
			return err
		}
	}
	return nil
}

// Save rewrites the backing file from the in-memory collection.
func (r *ProductRepository) Save() error {
	items := r.col.all()
	rows := make([]productRecord, len(items))
	for i, p := range items {
		rows[i] = productToRecord(p)
	}
	return writeRecords(r.path, rows)
}
