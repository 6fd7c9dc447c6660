package store

import "github.com/stockd/stockd/internal/domain"

type supplierRecord struct {
	ID         string `csv:"id"`
	Name       string `csv:"name"`
	Phone      string `csv:"phone"`
	Email      string `csv:"email"`
	Address    string `csv:"address"`
	Categories string `csv:"categories"`
}

type customerRecord struct {
	ID      string `csv:"id"`
	Name    string `csv:"name"`
	Phone   string `csv:"phone"`
	Email   string `csv:"email"`
	Address string `csv:"address"`
	Type    string `csv:"type"`
}

// SupplierRepository owns the supplier collection and its backing file.
type SupplierRepository struct {
	path string
	col  *collection[*domain.Supplier]
}

func NewSupplierRepository(path string) *SupplierRepository {
	return &SupplierRepository{path: path, col: newCollection[*domain.Supplier]("supplier")}
}

func (r *SupplierRepository) Add(s *domain.Supplier) error {
	if s.ID == "" {
		return domain.NewNotFound("supplier", "(empty id)")
	}
	return r.col.add(s.ID, s.Clone())
}

func (r *SupplierRepository) Update(s *domain.Supplier) error {
	return r.col.update(s.ID, s.Clone())
}

func (r *SupplierRepository) Delete(id string) error {
	return r.col.delete(id)
}

func (r *SupplierRepository) FindByID(id string) (*domain.Supplier, error) {
	s, ok := r.col.get(id)
	if !ok {
		return nil, domain.NewNotFound("supplier", id)
	}
	return s.Clone(), nil
}

func (r *SupplierRepository) FindAll() []*domain.Supplier {
	items := r.col.all()
	out := make([]*domain.Supplier, len(items))
	for i, s := range items {
		out[i] = s.Clone()
	}
	return out
}

func (r *SupplierRepository) Search(keyword string) []*domain.Supplier {
	out := []*domain.Supplier{}
	for _, s := range r.col.all() {
		if foldContains(s.ID, keyword) || foldContains(s.Name, keyword) ||
			foldContains(s.Email, keyword) || foldContains(s.Categories, keyword) {
			out = append(out, s.Clone())
		}
	}
	return out
}

func (r *SupplierRepository) Count() int { return r.col.len() }

func (r *SupplierRepository) Load() error {
	rows, err := readRecords[supplierRecord](r.path)
	if err != nil {
		return err
	}
	r.col.clear()
	for _, rec := range rows {
		s := &domain.Supplier{
			ID:         rec.ID,
			Name:       rec.Name,
			Phone:      rec.Phone,
			Email:      rec.Email,
			Address:    rec.Address,
			Categories: rec.Categories,
		}
		if err := r.col.add(s.ID, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *SupplierRepository) Save() error {
	items := r.col.all()
	rows := make([]supplierRecord, len(items))
	for i, s := range items {
		rows[i] = supplierRecord{
			ID:         s.ID,
			Name:       s.Name,
			Phone:      s.Phone,
			Email:      s.Email,
			Address:    s.Address,
			Categories: s.Categories,
		}
	}
	return writeRecords(r.path, rows)
}

// CustomerRepository owns the customer collection and its backing file.
type CustomerRepository struct {
	path string
	col  *collection[*domain.Customer]
}

func NewCustomerRepository(path string) *CustomerRepository {
	return &CustomerRepository{path: path, col: newCollection[*domain.Customer]("customer")}
}

func (r *CustomerRepository) Add(c *domain.Customer) error {
	if c.ID == "" {
		return domain.NewNotFound("customer", "(empty id)")
	}
	return r.col.add(c.ID, c.Clone())
}

func (r *CustomerRepository) Update(c *domain.Customer) error {
	return r.col.update(c.ID, c.Clone())
}

func (r *CustomerRepository) Delete(id string) error {
	return r.col.delete(id)
}

func (r *CustomerRepository) FindByID(id string) (*domain.Customer, error) {
	c, ok := r.col.get(id)
	if !ok {
		return nil, domain.NewNotFound("customer", id)
	}
	return c.Clone(), nil
}

func (r *CustomerRepository) FindAll() []*domain.Customer {
	items := r.col.all()
	out := make([]*domain.Customer, len(items))
	for i, c := range items {
		out[i] = c.Clone()
	}
	return out
}

func (r *CustomerRepository) Search(keyword string) []*domain.Customer {
	out := []*domain.Customer{}
	for _, c := range r.col.all() {
		if foldContains(c.ID, keyword) || foldContains(c.Name, keyword) ||
			foldContains(c.Email, keyword) || foldContains(c.Address, keyword) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func (r *CustomerRepository) Count() int { return r.col.len() }

func (r *CustomerRepository) Load() error {
	rows, err := readRecords[customerRecord](r.path)
	if err != nil {
		return err
	}
	r.col.clear()
	for _, rec := range rows {
		c := &domain.Customer{
			ID:      rec.ID,
			Name:    rec.Name,
			Phone:   rec.Phone,
			Email:   rec.Email,
			Address: rec.Address,
			Type:    domain.CustomerType(rec.Type),
		}
		if err := r.col.add(c.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *CustomerRepository) Save() error {
	items := r.col.all()
	rows := make([]customerRecord, len(items))
	for i, c := range items {
		rows[i] = customerRecord{
			ID:      c.ID,
			Name:    c.Name,
			Phone:   c.Phone,
			Email:   c.Email,
			Address: c.Address,
			Type:    string(c.Type),
		}
	}
	return writeRecords(r.path, rows)
}
