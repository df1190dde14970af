package history

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for history operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new history handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers history routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/top", h.Top)
	g.DELETE("", h.Clear)
	g.GET("/retention", h.GetRetention)
	g.PUT("/retention", h.UpdateRetention)
}

// List returns paginated history entries.
// GET /api/v1/history
func (h *Handlers) List(c echo.Context) error {
	page := 1
	if p := c.QueryParam("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	pageSize := 50
	if ps := c.QueryParam("pageSize"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 {
			pageSize = v
		}
	}

	result, err := h.service.List(c.Request().Context(), ListOptions{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// Top returns the most repeated queries.
// GET /api/v1/history/top
func (h *Handlers) Top(c echo.Context) error {
	limit := 10
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	top, err := h.service.Top(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, top)
}

// Clear deletes all history entries.
// DELETE /api/v1/history
func (h *Handlers) Clear(c echo.Context) error {
	if err := h.service.DeleteAll(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetRetention returns the history retention settings.
// GET /api/v1/history/retention
func (h *Handlers) GetRetention(c echo.Context) error {
	settings, err := h.service.GetRetentionSettings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateRetention updates the history retention settings.
// PUT /api/v1/history/retention
func (h *Handlers) UpdateRetention(c echo.Context) error {
	var settings RetentionSettings
	if err := c.Bind(&settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if settings.RetentionDays < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "retentionDays must not be negative")
	}

	if err := h.service.SaveRetentionSettings(c.Request().Context(), settings); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, settings)
}
