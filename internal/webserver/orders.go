package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockd/stockd/internal/domain"
	"github.com/stockd/stockd/internal/warehouse"
)

type importOrderPayload struct {
	SupplierID        string                  `json:"supplier_id"`
	WarehouseLocation string                  `json:"warehouse_location"`
	Items             []warehouse.ItemRequest `json:"items"`
}

type exportOrderPayload struct {
	CustomerID      string                  `json:"customer_id"`
	DeliveryAddress string                  `json:"delivery_address"`
	Items           []warehouse.ItemRequest `json:"items"`
}

func (s *Server) registerOrderRoutes() {
	g := s.echo.Group("/api/orders")
	g.GET("", s.listOrders)
	g.GET("/:type/:id", s.getOrder)
	g.POST("/import", s.createImportOrder)
	g.POST("/export", s.createExportOrder)
	g.POST("/:type/:id/confirm", s.confirmOrder)
	g.POST("/:type/:id/cancel", s.cancelOrder)
}

func orderTypeParam(c echo.Context) (domain.OrderType, bool) {
	switch c.Param("type") {
	case "import":
		return domain.OrderImport, true
	case "export":
		return domain.OrderExport, true
	default:
		return "", false
	}
}

// listOrders returns orders of one type, optionally filtered by keyword
// or an inclusive date range.
func (s *Server) listOrders(c echo.Context) error {
	var items []*domain.Order
	switch {
	case c.QueryParam("keyword") != "":
		items = s.app.Orders().Search(c.QueryParam("keyword"))
	default:
		t := domain.OrderImport
		if c.QueryParam("type") == "export" {
			t = domain.OrderExport
		}
		if fromStr := c.QueryParam("from"); fromStr != "" || c.QueryParam("to") != "" {
			from, to, err := s.app.Reporter().ParseDateRange(fromStr, c.QueryParam("to"))
			if err != nil {
				return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			}
			items = s.app.Orders().ByDateRange(t, from, to)
		} else {
			items = s.app.Orders().FindAll(t)
		}
	}
	page, pageSize := parsePagination(c)
	return paged(c, pageSlice(items, page, pageSize), len(items), page, pageSize)
}

func (s *Server) getOrder(c echo.Context) error {
	t, valid := orderTypeParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "order type must be import or export", nil)
	}
	order, err := s.app.Orders().FindByID(t, c.Param("id"))
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}

func (s *Server) createImportOrder(c echo.Context) error {
	var payload importOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	order, err := s.app.Warehouse().CreateImportOrder(payload.SupplierID, payload.WarehouseLocation, payload.Items)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}

func (s *Server) createExportOrder(c echo.Context) error {
	var payload exportOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	order, err := s.app.Warehouse().CreateExportOrder(payload.CustomerID, payload.DeliveryAddress, payload.Items)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}

func (s *Server) confirmOrder(c echo.Context) error {
	t, valid := orderTypeParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "order type must be import or export", nil)
	}
	id := c.Param("id")
	var err error
	if t == domain.OrderImport {
		err = s.app.Warehouse().ConfirmImport(id)
	} else {
		err = s.app.Warehouse().ConfirmExport(id)
	}
	if err != nil {
		return failDomain(c, err)
	}
	order, err := s.app.Orders().FindByID(t, id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}

func (s *Server) cancelOrder(c echo.Context) error {
	t, valid := orderTypeParam(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "order type must be import or export", nil)
	}
	id := c.Param("id")
	if err := s.app.Warehouse().CancelOrder(t, id); err != nil {
		return failDomain(c, err)
	}
	order, err := s.app.Orders().FindByID(t, id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}
