package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type BeginRegistrationRequest struct {
	Password string `json:"password"`
}

type UpdatePasskeyRequest struct {
	Name string `json:"name"`
}

type PasskeyHandlers struct {
	passkeyService *PasskeyService
	authService    *Service
}

func NewPasskeyHandlers(passkeyService *PasskeyService, authService *Service) *PasskeyHandlers {
	return &PasskeyHandlers{
		passkeyService: passkeyService,
		authService:    authService,
	}
}

// RegisterRoutes registers passkey endpoints. Login runs before a
// session exists; registration and management require one.
func (h *PasskeyHandlers) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/passkey/login/begin", h.BeginLogin)
	public.POST("/passkey/login/finish", h.FinishLogin)

	protected.POST("/passkey/register/begin", h.BeginRegistration)
	protected.POST("/passkey/register/finish", h.FinishRegistration)
	protected.GET("/passkey/credentials", h.ListCredentials)
	protected.PUT("/passkey/credentials/:id", h.UpdateCredential)
	protected.DELETE("/passkey/credentials/:id", h.DeleteCredential)
}

// BeginRegistration starts passkey enrollment. The password is required
// again so a stolen session cannot mint a durable credential.
func (h *PasskeyHandlers) BeginRegistration(c echo.Context) error {
	var req BeginRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.authService.ValidatePassword(req.Password); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
	}

	resp, err := h.passkeyService.BeginRegistration(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, resp)
}

// FinishRegistration completes enrollment. challengeId and name travel
// as query parameters because the body is the raw WebAuthn credential.
func (h *PasskeyHandlers) FinishRegistration(c echo.Context) error {
	challengeID := c.QueryParam("challengeId")
	name := c.QueryParam("name")
	if challengeID == "" || name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "challengeId and name query parameters are required")
	}

	if err := h.passkeyService.FinishRegistration(c.Request().Context(), challengeID, name, c.Request()); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *PasskeyHandlers) BeginLogin(c echo.Context) error {
	resp, err := h.passkeyService.BeginLogin(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrNoPasskeys) {
			return echo.NewHTTPError(http.StatusNotFound, "no passkeys registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PasskeyHandlers) FinishLogin(c echo.Context) error {
	challengeID := c.QueryParam("challengeId")
	if challengeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "challengeId query parameter is required")
	}

	if err := h.passkeyService.FinishLogin(c.Request().Context(), challengeID, c.Request()); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	token, err := h.authService.GenerateToken()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (h *PasskeyHandlers) ListCredentials(c echo.Context) error {
	creds, err := h.passkeyService.ListCredentials(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, creds)
}

func (h *PasskeyHandlers) UpdateCredential(c echo.Context) error {
	var req UpdatePasskeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.passkeyService.UpdateCredentialName(c.Request().Context(), c.Param("id"), req.Name); err != nil {
		if errors.Is(err, ErrPasskeyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "passkey not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusOK)
}

func (h *PasskeyHandlers) DeleteCredential(c echo.Context) error {
	if err := h.passkeyService.DeleteCredential(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrPasskeyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "passkey not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
