package webserver

import (
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/pkg/idgen"
	"github.com/stockd/stockd/pkg/metrics"
)

type productPayload struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	ImportPrice    float64 `json:"import_price"`
	SalePrice      float64 `json:"sale_price"`
	StockQuantity  int     `json:"stock_quantity"`
	WarrantyMonths int     `json:"warranty_months"`
	Size           string  `json:"size"`
	Material       string  `json:"material"`
	ExpiryDate     string  `json:"expiry_date"`
	Dimensions     string  `json:"dimensions"`
	WeightKg       float64 `json:"weight_kg"`
}

func (p productPayload) toDomain() (*domain.Product, error) {
	prod := &domain.Product{
		ID:            p.ID,
		Type:          domain.ProductType(p.Type),
		Name:          p.Name,
		Category:      p.Category,
		ImportPrice:   p.ImportPrice,
		SalePrice:     p.SalePrice,
		StockQuantity: p.StockQuantity,
	}
	if prod.Type == "" {
		prod.Type = domain.ProductGeneric
	}
	switch prod.Type {
	case domain.ProductElectronics:
		prod.Attrs.WarrantyMonths = p.WarrantyMonths
	case domain.ProductClothing:
		prod.Attrs.Size = p.Size
		prod.Attrs.Material = p.Material
	case domain.ProductFood:
		if p.ExpiryDate != "" {
			expiry, err := dateparse.ParseAny(p.ExpiryDate)
			if err != nil {
				return nil, err
			}
			prod.Attrs.ExpiryDate = expiry
		}
	case domain.ProductFurniture:
		prod.Attrs.Dimensions = p.Dimensions
		prod.Attrs.WeightKg = p.WeightKg
	}
	return prod, nil
}

func (s *Server) registerProductRoutes() {
	g := s.echo.Group("/api/products")
	g.GET("", s.listProducts)
	g.GET("/:id", s.getProduct)
	g.POST("", s.createProduct)
	g.PUT("/:id", s.updateProduct)
	g.DELETE("/:id", s.deleteProduct)
	g.GET("/:id/stock/history", s.productStockHistory)
}

func (s *Server) listProducts(c echo.Context) error {
	var items []*domain.Product
	if keyword := c.QueryParam("keyword"); keyword != "" {
		items = s.app.Products().Search(keyword)
	} else {
		items = s.app.Products().FindAll()
	}
	page, pageSize := parsePagination(c)
	return paged(c, pageSlice(items, page, pageSize), len(items), page, pageSize)
}

func (s *Server) getProduct(c echo.Context) error {
	product, err := s.app.Products().FindByID(c.Param("id"))
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, product)
}

func (s *Server) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "name is required", nil)
	}
	product, err := payload.toDomain()
	if err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	if product.ID == "" {
		product.ID = s.app.IDGen().Next(idgen.PrefixProduct)
	}
	if err := s.app.Warehouse().AddProduct(product); err != nil {
		return failDomain(c, err)
	}
	return ok(c, product)
}

func (s *Server) updateProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	payload.ID = c.Param("id")
	product, err := payload.toDomain()
	if err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	if err := s.app.Warehouse().UpdateProduct(product); err != nil {
		return failDomain(c, err)
	}
	return ok(c, product)
}

func (s *Server) deleteProduct(c echo.Context) error {
	if err := s.app.Warehouse().DeleteProduct(c.Param("id")); err != nil {
		return failDomain(c, err)
	}
	return ok(c, nil)
}

// productStockHistory returns the recorded stock-level series for one
// product over the last 24 hours (or the given from/to unix range).
func (s *Server) productStockHistory(c echo.Context) error {
	id := c.Param("id")
	if _, err := s.app.Products().FindByID(id); err != nil {
		return failDomain(c, err)
	}

	now := time.Now()
	start := now.Add(-24 * time.Hour)
	end := now
	if fromStr := c.QueryParam("from"); fromStr != "" {
		from, to, err := s.app.Reporter().ParseDateRange(fromStr, c.QueryParam("to"))
		if err != nil {
			return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		}
		start, end = from, to
	}

	points, err := metrics.StockHistory(id, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return ok(c, points)
}
