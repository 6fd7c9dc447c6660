package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockd/stockd/internal/domain"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.JSONSerializer = jsonSerializer{}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPageSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, pageSlice(items, 1, 2))
	assert.Equal(t, []int{3, 4}, pageSlice(items, 2, 2))
	assert.Equal(t, []int{5}, pageSlice(items, 3, 2))
	assert.Empty(t, pageSlice(items, 4, 2))
	assert.Empty(t, pageSlice([]int{}, 1, 20))
}

func TestParsePagination(t *testing.T) {
	c, _ := newTestContext(t, "/api/products")
	page, pageSize := parsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)

	c, _ = newTestContext(t, "/api/products?page=3&perPage=50")
	page, pageSize = parsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, pageSize)

	c, _ = newTestContext(t, "/api/products?page=-1&perPage=9999")
	page, pageSize = parsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}

func TestFailDomainStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.NewNotFound("product", "PRD-404"), http.StatusNotFound},
		{&domain.QuantityError{Quantity: -1}, http.StatusBadRequest},
		{&domain.OutOfStockError{ProductID: "PRD-1", Requested: 5, Available: 3}, http.StatusConflict},
		{&domain.StateError{OrderID: "IMP-1", Status: domain.StatusCompleted, Op: "confirm"}, http.StatusConflict},
		{&domain.DuplicateIDError{Kind: "product", ID: "PRD-1"}, http.StatusConflict},
		{domain.ErrStorage, http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t, "/")
		require.NoError(t, failDomain(c, tc.err))
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
	}
}
