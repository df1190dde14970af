package profile

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Notifier pushes profile events to connected clients.
type Notifier interface {
	Broadcast(msgType string, payload interface{}) error
}

// Handlers provides HTTP handlers for profile and favorites operations.
type Handlers struct {
	service  *Service
	notifier Notifier
}

// NewHandlers creates new profile handlers. notifier may be nil.
func NewHandlers(service *Service, notifier Notifier) *Handlers {
	return &Handlers{service: service, notifier: notifier}
}

// RegisterRoutes registers profile routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetProfile)
	g.PUT("", h.UpdateProfile)
	g.GET("/favorites", h.ListFavorites)
	g.POST("/favorites", h.AddFavorite)
	g.DELETE("/favorites/:id", h.RemoveFavorite)
}

// GetProfile returns the listener profile.
// GET /api/v1/profile
func (h *Handlers) GetProfile(c echo.Context) error {
	p, err := h.service.GetProfile(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProfile updates the listener profile.
// PUT /api/v1/profile
func (h *Handlers) UpdateProfile(c echo.Context) error {
	var input UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateProfile(c.Request().Context(), input)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

// ListFavorites returns all favorite tracks.
// GET /api/v1/profile/favorites
func (h *Handlers) ListFavorites(c echo.Context) error {
	favorites, err := h.service.ListFavorites(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, favorites)
}

// AddFavorite pins a track.
// POST /api/v1/profile/favorites
func (h *Handlers) AddFavorite(c echo.Context) error {
	var input AddFavoriteInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	fav, err := h.service.AddFavorite(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, ErrNameRequired) || errors.Is(err, ErrArtistRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, ErrFavoriteExists) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.notifier != nil {
		h.notifier.Broadcast("favorite:added", map[string]interface{}{
			"id":     fav.ID,
			"name":   fav.Name,
			"artist": fav.Artist,
		})
	}

	return c.JSON(http.StatusCreated, fav)
}

// RemoveFavorite unpins a track.
// DELETE /api/v1/profile/favorites/:id
func (h *Handlers) RemoveFavorite(c echo.Context) error {
	id := c.Param("id")

	if err := h.service.RemoveFavorite(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrFavoriteNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.notifier != nil {
		h.notifier.Broadcast("favorite:removed", map[string]interface{}{"id": id})
	}

	return c.NoContent(http.StatusNoContent)
}
