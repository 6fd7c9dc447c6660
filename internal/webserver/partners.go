package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/pkg/idgen"
)

type supplierPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Categories string `json:"categories"`
}

type customerPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Type    string `json:"type"`
}

func (s *Server) registerPartnerRoutes() {
	sg := s.echo.Group("/api/suppliers")
	sg.GET("", s.listSuppliers)
	sg.GET("/:id", s.getSupplier)
	sg.POST("", s.createSupplier)
	sg.PUT("/:id", s.updateSupplier)
	sg.DELETE("/:id", s.deleteSupplier)

	cg := s.echo.Group("/api/customers")
	cg.GET("", s.listCustomers)
	cg.GET("/:id", s.getCustomer)
	cg.POST("", s.createCustomer)
	cg.PUT("/:id", s.updateCustomer)
	cg.DELETE("/:id", s.deleteCustomer)
}

func (s *Server) listSuppliers(c echo.Context) error {
	var items []*domain.Supplier
	if keyword := c.QueryParam("keyword"); keyword != "" {
		items = s.app.Suppliers().Search(keyword)
	} else {
		items = s.app.Suppliers().FindAll()
	}
	page, pageSize := parsePagination(c)
	return paged(c, pageSlice(items, page, pageSize), len(items), page, pageSize)
}

func (s *Server) getSupplier(c echo.Context) error {
	supplier, err := s.app.Suppliers().FindByID(c.Param("id"))
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, supplier)
}

func (s *Server) createSupplier(c echo.Context) error {
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "name is required", nil)
	}
	if payload.ID == "" {
		payload.ID = s.app.IDGen().Next(idgen.PrefixSupplier)
	}
	supplier := &domain.Supplier{
		ID:         payload.ID,
		Name:       payload.Name,
		Phone:      payload.Phone,
		Email:      payload.Email,
		Address:    payload.Address,
		Categories: payload.Categories,
	}
	if err := s.app.Warehouse().AddSupplier(supplier); err != nil {
		return failDomain(c, err)
	}
	return ok(c, supplier)
}

func (s *Server) updateSupplier(c echo.Context) error {
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	supplier := &domain.Supplier{
		ID:         c.Param("id"),
		Name:       payload.Name,
		Phone:      payload.Phone,
		Email:      payload.Email,
		Address:    payload.Address,
		Categories: payload.Categories,
	}
	if err := s.app.Warehouse().UpdateSupplier(supplier); err != nil {
		return failDomain(c, err)
	}
	return ok(c, supplier)
}

func (s *Server) deleteSupplier(c echo.Context) error {
	if err := s.app.Warehouse().DeleteSupplier(c.Param("id")); err != nil {
		return failDomain(c, err)
	}
	return ok(c, nil)
}

func (s *Server) listCustomers(c echo.Context) error {
	var items []*domain.Customer
	if keyword := c.QueryParam("keyword"); keyword != "" {
		items = s.app.Customers().Search(keyword)
	} else {
		items = s.app.Customers().FindAll()
	}
	page, pageSize := parsePagination(c)
	return paged(c, pageSlice(items, page, pageSize), len(items), page, pageSize)
}

func (s *Server) getCustomer(c echo.Context) error {
	customer, err := s.app.Customers().FindByID(c.Param("id"))
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, customer)
}

func (s *Server) createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "name is required", nil)
	}
	if payload.ID == "" {
		payload.ID = s.app.IDGen().Next(idgen.PrefixCustomer)
	}
	if payload.Type == "" {
		payload.Type = string(domain.CustomerRetail)
	}
	customer := &domain.Customer{
		ID:      payload.ID,
		Name:    payload.Name,
		Phone:   payload.Phone,
		Email:   payload.Email,
		Address: payload.Address,
		Type:    domain.CustomerType(payload.Type),
	}
	if err := s.app.Warehouse().AddCustomer(customer); err != nil {
		return failDomain(c, err)
	}
	return ok(c, customer)
}

func (s *Server) updateCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	customer := &domain.Customer{
		ID:      c.Param("id"),
		Name:    payload.Name,
		Phone:   payload.Phone,
		Email:   payload.Email,
		Address: payload.Address,
		Type:    domain.CustomerType(payload.Type),
	}
	if err := s.app.Warehouse().UpdateCustomer(customer); err != nil {
		return failDomain(c, err)
	}
	return ok(c, customer)
}

func (s *Server) deleteCustomer(c echo.Context) error {
	if err := s.app.Warehouse().DeleteCustomer(c.Param("id")); err != nil {
		return failDomain(c, err)
	}
	return ok(c, nil)
}
