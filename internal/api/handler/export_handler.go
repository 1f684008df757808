package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dockside/truck-management/internal/core/ports"
	"github.com/dockside/truck-management/internal/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet downloads: filtered record exports and
// the blank import template.
type ExportHandler struct {
	service ports.TruckService
}

func NewExportHandler(service ports.TruckService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export handles GET /api/trucks/export.
//
// @Summary      Export trucks as a spreadsheet
// @Tags         import
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        terminal            query  string  false  "Filter by terminal"
// @Param        status_preparation  query  string  false  "Filter by preparation status"
// @Param        status_loading      query  string  false  "Filter by loading status"
// @Param        date_from           query  string  false  "Created on or after (YYYY-MM-DD)"
// @Param        date_to             query  string  false  "Created on or before (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  map[string]string
// @Router       /api/trucks/export [get]
func (h *ExportHandler) Export(c echo.Context) error {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		return err
	}

	trucks, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	payload, err := spreadsheet.WriteTrucks(trucks)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("trucks_export_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, payload)
}

// Template handles GET /api/trucks/template.
//
// @Summary      Download the import template
// @Tags         import
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/trucks/template [get]
func (h *ExportHandler) Template(c echo.Context) error {
	payload, err := spreadsheet.Template()
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="truck_import_template.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, payload)
}
