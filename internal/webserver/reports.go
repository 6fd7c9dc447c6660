package webserver

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

func (s *Server) registerReportRoutes() {
	g := s.echo.Group("/api/reports")
	g.GET("/inventory", s.inventorySummary)
	g.GET("/inventory/check", s.inventoryCheck)
	g.GET("/inventory/export", s.inventoryExport)
	g.GET("/flow", s.flowSummary)
	g.GET("/revenue", s.revenueReport)
	g.GET("/top-products", s.topProducts)
	g.GET("/seasons", s.seasonalTrend)

	s.echo.GET("/api/settings", s.getSettings)
	s.echo.POST("/api/settings", s.saveSettings)
	s.echo.POST("/api/backup", s.runBackup)
}

func (s *Server) inventorySummary(c echo.Context) error {
	summary, err := s.app.Reporter().InventorySummary()
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, summary)
}

func (s *Server) inventoryCheck(c echo.Context) error {
	threshold := cast.ToInt(c.QueryParam("threshold"))
	if threshold <= 0 {
		threshold = s.app.LowStockThreshold()
	}
	return ok(c, s.app.Warehouse().PerformInventoryCheck(threshold))
}

// inventoryExport streams the per-product inventory detail as a CSV or
// XLSX attachment.
func (s *Server) inventoryExport(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	name := fmt.Sprintf("inventory-%s.%s", time.Now().Format("20060102150405"), format)
	path := filepath.Join(os.TempDir(), name)
	defer os.Remove(path)

	var err error
	switch format {
	case "csv":
		err = s.app.Reporter().ExportInventoryCSV(path)
	case "xlsx":
		err = s.app.Reporter().ExportInventoryXLSX(path)
	default:
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "format must be csv or xlsx", nil)
	}
	if err != nil {
		return failDomain(c, err)
	}
	return c.Attachment(path, name)
}

func (s *Server) flowSummary(c echo.Context) error {
	from, to, err := s.app.Reporter().ParseDateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	return ok(c, s.app.Reporter().FlowSummary(from, to))
}

func (s *Server) revenueReport(c echo.Context) error {
	from, to, err := s.app.Reporter().ParseDateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	return ok(c, s.app.Reporter().RevenueReport(from, to))
}

func (s *Server) topProducts(c echo.Context) error {
	n := cast.ToInt(c.QueryParam("limit"))
	if n <= 0 {
		n = 10
	}
	return ok(c, s.app.Reporter().TopSellingProducts(n))
}

func (s *Server) seasonalTrend(c echo.Context) error {
	return ok(c, s.app.Reporter().SeasonalTrend())
}

func (s *Server) getSettings(c echo.Context) error {
	return ok(c, s.app.ConfigMgr().InventorySettings())
}

func (s *Server) saveSettings(c echo.Context) error {
	var values map[string]interface{}
	if err := c.Bind(&values); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
	if err := s.app.SaveSettings(values); err != nil {
		return failDomain(c, err)
	}
	return ok(c, nil)
}

func (s *Server) runBackup(c echo.Context) error {
	if err := s.app.RunBackupNow(); err != nil {
		return failDomain(c, err)
	}
	return ok(c, nil)
}
