package warehouse

import (
	"github.com/stockd/stockd/internal/domain"
)

// Catalog maintenance runs through the service rather than the
// repositories directly so that every mutation and its save hold the
// operation lock.

func (s *Service) AddProduct(p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.products.Add(p); err != nil {
		return err
	}
	return s.products.Save()
}

func (s *Service) UpdateProduct(p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.products.Update(p); err != nil {
		return err
	}
	return s.products.Save()
}

func (s *Service) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.products.Delete(id); err != nil {
		return err
	}
	return s.products.Save()
}

func (s *Service) AddSupplier(sup *domain.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.suppliers.Add(sup); err != nil {
		return err
	}
	return s.suppliers.Save()
}

func (s *Service) UpdateSupplier(sup *domain.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.suppliers.Update(sup); err != nil {
		return err
	}
	return s.suppliers.Save()
}

func (s *Service) DeleteSupplier(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.suppliers.Delete(id); err != nil {
		return err
	}
	return s.suppliers.Save()
}

func (s *Service) AddCustomer(c *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.customers.Add(c); err != nil {
		return err
	}
	return s.customers.Save()
}

func (s *Service) UpdateCustomer(c *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.customers.Update(c); err != nil {
		return err
	}
	return s.customers.Save()
}

func (s *Service) DeleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.customers.Delete(id); err != nil {
		return err
	}
	return s.customers.Save()
}
