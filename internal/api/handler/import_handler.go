package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dockside/truck-management/internal/api/metrics"
	"github.com/dockside/truck-management/internal/core/ports"
)

// ImportHandler exposes the two-phase spreadsheet import: a preview that
// stages candidates under a session token and a confirm that applies them.
type ImportHandler struct {
	service ports.ImportService
}

func NewImportHandler(service ports.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

type importPreviewResponse struct {
	Success      bool            `json:"success"`
	SessionID    string          `json:"session_id"`
	Preview      []truckResponse `json:"preview"`
	TotalRows    int             `json:"total_rows"`
	Errors       []string        `json:"errors"`
	ColumnsFound []string        `json:"columns_found"`
}

type importConfirmRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type importConfirmResponse struct {
	Success       bool                     `json:"success"`
	Imported      int                      `json:"imported"`
	Failed        int                      `json:"failed"`
	FailedDetails []ports.ImportRowFailure `json:"failed_details"`
	Message       string                   `json:"message"`
}

// Preview handles POST /api/trucks/import/preview.
//
// @Summary      Preview a spreadsheet import
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Spreadsheet file (.xlsx)"
// @Success      200   {object}  importPreviewResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/trucks/import/preview [post]
func (h *ImportHandler) Preview(c echo.Context) error {
	username, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file could not be read")
	}
	defer file.Close()

	result, err := h.service.Preview(c.Request().Context(), file, username)
	if err != nil {
		return err
	}

	metrics.ImportSessionsTotal.Inc()

	preview := make([]truckResponse, len(result.Preview))
	for i := range result.Preview {
		preview[i] = toTruckResponse(&result.Preview[i])
	}

	return c.JSON(http.StatusOK, importPreviewResponse{
		Success:      true,
		SessionID:    result.SessionID,
		Preview:      preview,
		TotalRows:    result.TotalRows,
		Errors:       result.Errors,
		ColumnsFound: result.ColumnsFound,
	})
}

// Confirm handles POST /api/trucks/import/confirm.
//
// @Summary      Confirm a staged import
// @Tags         import
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      importConfirmRequest  true  "Session to apply"
// @Success      200   {object}  importConfirmResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/trucks/import/confirm [post]
func (h *ImportHandler) Confirm(c echo.Context) error {
	username, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req importConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Confirm(c.Request().Context(), req.SessionID, username)
	if err != nil {
		return err
	}

	metrics.ImportRowsTotal.WithLabelValues("imported").Add(float64(result.Imported))
	metrics.ImportRowsTotal.WithLabelValues("failed").Add(float64(result.Failed))

	return c.JSON(http.StatusOK, importConfirmResponse{
		Success:       true,
		Imported:      result.Imported,
		Failed:        result.Failed,
		FailedDetails: result.FailedDetails,
		Message:       result.Message,
	})
}
