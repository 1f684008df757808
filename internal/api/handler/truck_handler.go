package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dockside/truck-management/internal/api/metrics"
	"github.com/dockside/truck-management/internal/core/ports"
)

// TruckHandler handles HTTP requests for truck record operations.
type TruckHandler struct {
	service ports.TruckService
}

func NewTruckHandler(service ports.TruckService) *TruckHandler {
	return &TruckHandler{service: service}
}

// List handles GET /api/trucks.
//
// @Summary      List trucks
// @Tags         trucks
// @Produce      json
// @Security     BearerAuth
// @Param        terminal            query     string  false  "Filter by terminal"
// @Param        status_preparation  query     string  false  "Filter by preparation status"
// @Param        status_loading      query     string  false  "Filter by loading status"
// @Param        date_from           query     string  false  "Created on or after (YYYY-MM-DD)"
// @Param        date_to             query     string  false  "Created on or before (YYYY-MM-DD)"
// @Param        skip                query     int     false  "Records to skip"
// @Param        limit               query     int     false  "Maximum records to return"
// @Success      200                 {array}   truckResponse
// @Failure      400                 {object}  map[string]string
// @Failure      401                 {object}  map[string]string
// @Router       /api/trucks [get]
func (h *TruckHandler) List(c echo.Context) error {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		return err
	}

	trucks, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTruckListResponse(trucks))
}

// Get handles GET /api/trucks/:id.
//
// @Summary      Get a truck by id
// @Tags         trucks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Truck id"
// @Success      200  {object}  truckResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/trucks/{id} [get]
func (h *TruckHandler) Get(c echo.Context) error {
	truck, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTruckResponse(truck))
}

// Create handles POST /api/trucks.
//
// @Summary      Create a truck record
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTruckRequest  true  "Truck details"
// @Success      201   {object}  truckResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/trucks [post]
func (h *TruckHandler) Create(c echo.Context) error {
	var req createTruckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	truck, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.TrucksCreatedTotal.WithLabelValues(truck.Terminal).Inc()
	return c.JSON(http.StatusCreated, toTruckResponse(truck))
}

// Update handles PUT /api/trucks/:id.
//
// @Summary      Update a truck record
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Truck id"
// @Param        body  body      updateTruckRequest  true  "Fields to update"
// @Success      200   {object}  truckResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/trucks/{id} [put]
func (h *TruckHandler) Update(c echo.Context) error {
	var req updateTruckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	truck, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTruckResponse(truck))
}

// UpdateStatus handles PATCH /api/trucks/:id/status.
//
// @Summary      Update one stage status of a truck
// @Tags         trucks
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Truck id"
// @Param        status_type  query     string  true  "Stage: preparation or loading"
// @Param        status       query     string  true  "New status value"
// @Success      200          {object}  truckResponse
// @Failure      400          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /api/trucks/{id}/status [patch]
func (h *TruckHandler) UpdateStatus(c echo.Context) error {
	statusType := c.QueryParam("status_type")
	status := c.QueryParam("status")
	if statusType == "" || status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status_type and status are required")
	}

	truck, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), statusType, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTruckResponse(truck))
}

// Delete handles DELETE /api/trucks/:id.
//
// @Summary      Delete a truck record
// @Tags         trucks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Truck id"
// @Success      200  {object}  deleteTruckResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/trucks/{id} [delete]
func (h *TruckHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteTruckResponse{
		Success: true,
		Message: "Truck deleted successfully",
	})
}

// Stats handles GET /api/stats.
//
// @Summary      Aggregate truck statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        terminal   query     string  false  "Filter by terminal"
// @Param        date_from  query     string  false  "Created on or after (YYYY-MM-DD)"
// @Param        date_to    query     string  false  "Created on or before (YYYY-MM-DD)"
// @Success      200        {object}  statsResponse
// @Failure      400        {object}  map[string]string
// @Router       /api/stats [get]
func (h *TruckHandler) Stats(c echo.Context) error {
	result, err := h.service.Stats(c.Request().Context(), ports.StatsFilter{
		Terminal: c.QueryParam("terminal"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(result))
}

// listFilterFromQuery parses the list query parameters, turning malformed
// dates and numbers into 400s before any service call.
func listFilterFromQuery(c echo.Context) (ports.ListTrucksFilter, error) {
	filter := ports.ListTrucksFilter{
		Terminal:          c.QueryParam("terminal"),
		StatusPreparation: c.QueryParam("status_preparation"),
		StatusLoading:     c.QueryParam("status_loading"),
	}

	if v := c.QueryParam("date_from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = from
	}
	if v := c.QueryParam("date_to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "date_to must be YYYY-MM-DD")
		}
		// Inclusive end of day.
		filter.DateTo = to.Add(24*time.Hour - time.Second)
	}
	if v := c.QueryParam("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "skip must be a non-negative integer")
		}
		filter.Skip = skip
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}
