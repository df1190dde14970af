package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cadenza/cadenza/internal/catalog/spotify"
	"github.com/cadenza/cadenza/internal/search"
)

// Recorder records completed quick-find searches.
type Recorder interface {
	Record(ctx context.Context, query string, resultCount, exactCount int)
}

// Notifier pushes catalog events to connected clients.
type Notifier interface {
	Broadcast(msgType string, payload interface{}) error
}

// Handlers provides HTTP handlers for catalog search operations.
type Handlers struct {
	service      *Service
	history      Recorder
	notifier     Notifier
	defaultLimit int
}

// NewHandlers creates new catalog handlers. history and notifier may be
// nil; recording and event fan-out are then skipped.
func NewHandlers(service *Service, history Recorder, notifier Notifier, defaultLimit int) *Handlers {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Handlers{
		service:      service,
		history:      history,
		notifier:     notifier,
		defaultLimit: defaultLimit,
	}
}

// RegisterRoutes registers the catalog search routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	// Ranked search
	g.GET("/quick", h.QuickFind)

	// Raw provider access
	g.GET("/tracks", h.SearchTracks)
	g.GET("/tracks/:id", h.GetTrack)

	// Cache management
	g.DELETE("/cache", h.ClearCache)

	// Provider status
	g.GET("/status", h.GetStatus)
}

// quickFindResponse is the quick-find endpoint payload.
type quickFindResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

// QuickFind runs a ranked catalog search.
// GET /api/v1/search/quick?q=...&limit=...
func (h *Handlers) QuickFind(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q parameter is required")
	}

	limit, err := h.parseLimit(c)
	if err != nil {
		return err
	}

	results, err := h.service.QuickFind(c.Request().Context(), query, limit)
	if err != nil {
		if errors.Is(err, ErrNoProviderConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "no catalog provider configured")
		}
		if errors.Is(err, spotify.ErrRateLimited) {
			return echo.NewHTTPError(http.StatusTooManyRequests, "catalog provider rate limited")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.history != nil {
		exact := 0
		for _, r := range results {
			if r.IsExactMatch {
				exact++
			}
		}
		h.history.Record(c.Request().Context(), query, len(results), exact)
	}

	if h.notifier != nil {
		h.notifier.Broadcast("search:performed", map[string]interface{}{
			"query":   query,
			"results": len(results),
		})
	}

	return c.JSON(http.StatusOK, quickFindResponse{Query: query, Results: results})
}

// SearchTracks proxies a raw provider search without ranking.
// GET /api/v1/search/tracks?q=...&limit=...
func (h *Handlers) SearchTracks(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q parameter is required")
	}

	limit, err := h.parseLimit(c)
	if err != nil {
		return err
	}

	tracks, err := h.service.SearchTracks(c.Request().Context(), query, limit)
	if err != nil {
		if errors.Is(err, ErrNoProviderConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "no catalog provider configured")
		}
		if errors.Is(err, spotify.ErrRateLimited) {
			return echo.NewHTTPError(http.StatusTooManyRequests, "catalog provider rate limited")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, tracks)
}

// GetTrack gets track details by provider ID.
// GET /api/v1/search/tracks/:id
func (h *Handlers) GetTrack(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	track, err := h.service.GetTrack(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNoProviderConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "no catalog provider configured")
		}
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "track not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, track)
}

// GetStatus reports provider and cache state.
// GET /api/v1/search/status
func (h *Handlers) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Status())
}

// ClearCache drops all cached provider responses.
// DELETE /api/v1/search/cache
func (h *Handlers) ClearCache(c echo.Context) error {
	h.service.ClearCache()
	return c.JSON(http.StatusOK, map[string]string{"status": "cache cleared"})
}

// parseLimit reads the optional limit parameter, falling back to the
// configured default when absent.
func (h *Handlers) parseLimit(c echo.Context) (int, error) {
	limitStr := c.QueryParam("limit")
	if limitStr == "" {
		return h.defaultLimit, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return limit, nil
}
