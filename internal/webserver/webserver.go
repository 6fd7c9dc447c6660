// Package webserver exposes the warehouse over HTTP for admin consoles
// and integrations. It is presentation glue: every handler calls into
// the repositories and services and returns plain data.
package webserver

import (
	"errors"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/stockd/stockd/internal/app"
	"github.com/stockd/stockd/internal/domain"
)

// Server wraps the echo instance and the application context.
type Server struct {
	app  app.AppContext
	echo *echo.Echo
}

type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	return jsoniter.NewDecoder(c.Request().Body).Decode(i)
}

func NewServer(appCtx app.AppContext) *Server {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())

	s := &Server{app: appCtx, echo: e}
	s.registerProductRoutes()
	s.registerPartnerRoutes()
	s.registerOrderRoutes()
	s.registerReportRoutes()
	return s
}

// Start blocks serving HTTP until the listener fails or is shut down.
func (s *Server) Start() error {
	cfg := s.app.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("webserver listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Echo exposes the router (used in tests).
func (s *Server) Echo() *echo.Echo { return s.echo }

type response struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, response{Code: "OK", Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, response{Code: code, Message: message, Detail: detail})
}

type pagedData struct {
	Rows     interface{} `json:"rows"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func paged(c echo.Context, rows interface{}, total, page, pageSize int) error {
	return c.JSON(http.StatusOK, response{Code: "OK", Data: pagedData{
		Rows: rows, Total: total, Page: page, PageSize: pageSize,
	}})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("perPage"))
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

// pageSlice cuts one page out of a full snapshot.
func pageSlice[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// failDomain maps the error taxonomy onto HTTP statuses and stable
// error codes.
func failDomain(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", err.Error(), nil)
	case errors.Is(err, domain.ErrOutOfStock):
		var oos *domain.OutOfStockError
		if errors.As(err, &oos) {
			return fail(c, http.StatusConflict, "OUT_OF_STOCK", err.Error(), map[string]interface{}{
				"product_id": oos.ProductID,
				"name":       oos.ProductName,
				"requested":  oos.Requested,
				"available":  oos.Available,
			})
		}
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidOrderState):
		return fail(c, http.StatusConflict, "INVALID_ORDER_STATE", err.Error(), nil)
	case errors.Is(err, domain.ErrDuplicateID):
		return fail(c, http.StatusConflict, "DUPLICATE_ID", err.Error(), nil)
	case errors.Is(err, domain.ErrStorage):
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}
