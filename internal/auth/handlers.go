package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// lockoutAccount keys the failed-attempt tracker. The server has a
// single owner, so one fixed account is enough.
const lockoutAccount = "owner"

// minPasswordLength is enforced on setup and password changes.
const minPasswordLength = 8

// AccountLockoutChecker provides account lockout functionality.
type AccountLockoutChecker interface {
	IsAccountLocked(username string) bool
	GetLockoutRemaining(username string) time.Duration
	RecordFailedAttempt(username string)
	RecordSuccessfulLogin(username string)
}

type StatusResponse struct {
	RequiresSetup bool `json:"requiresSetup"`
	RequiresAuth  bool `json:"requiresAuth"`
}

type SetupRequest struct {
	Password string `json:"password"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type APIKeyResponse struct {
	APIKey string `json:"apiKey"`
}

// Handlers provides HTTP handlers for authentication.
type Handlers struct {
	service *Service
	lockout AccountLockoutChecker
}

// NewHandlers creates auth handlers. lockout may be nil, in which case
// failed logins are not tracked.
func NewHandlers(service *Service, lockout AccountLockoutChecker) *Handlers {
	return &Handlers{
		service: service,
		lockout: lockout,
	}
}

// RegisterRoutes registers auth endpoints. Status, setup, login and
// logout are public; password and API key management require a session.
func (h *Handlers) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/status", h.GetStatus)
	public.POST("/setup", h.Setup)
	public.POST("/login", h.Login)
	public.POST("/logout", h.Logout)

	protected.PUT("/password", h.ChangePassword)
	protected.GET("/apikey", h.GetAPIKey)
	protected.POST("/apikey/regenerate", h.RegenerateAPIKey)
}

// GetStatus reports whether initial setup is needed.
func (h *Handlers) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		RequiresSetup: !h.service.IsPasswordSet(),
		RequiresAuth:  true,
	})
}

// Setup sets the initial password. Only allowed from localhost and only
// while no password exists.
func (h *Handlers) Setup(c echo.Context) error {
	if !isLocalRequest(c) {
		return echo.NewHTTPError(http.StatusForbidden, "setup is only allowed from localhost")
	}

	if h.service.IsPasswordSet() {
		return echo.NewHTTPError(http.StatusConflict, "password has already been set")
	}

	var req SetupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if len(req.Password) < minPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if err := h.service.SetPassword(req.Password); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to set password")
	}

	token, err := h.service.GenerateToken()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(http.StatusCreated, LoginResponse{Token: token})
}

// Login validates the password and returns a session token.
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if h.lockout != nil && h.lockout.IsAccountLocked(lockoutAccount) {
		remaining := h.lockout.GetLockoutRemaining(lockoutAccount).Round(time.Second)
		return echo.NewHTTPError(http.StatusTooManyRequests,
			fmt.Sprintf("too many failed attempts, try again in %s", remaining))
	}

	if err := h.service.ValidatePassword(req.Password); err != nil {
		if errors.Is(err, ErrNoPasswordSet) {
			return echo.NewHTTPError(http.StatusConflict, "setup required")
		}
		if h.lockout != nil {
			h.lockout.RecordFailedAttempt(lockoutAccount)
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if h.lockout != nil {
		h.lockout.RecordSuccessfulLogin(lockoutAccount)
	}

	token, err := h.service.GenerateToken()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// Logout exists so clients have a uniform flow. Tokens are stateless,
// so there is nothing to revoke server-side.
func (h *Handlers) Logout(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword replaces the password after verifying the current one.
func (h *Handlers) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if len(req.NewPassword) < minPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if err := h.service.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrNoPasswordSet) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to change password")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetAPIKey returns the current API key, generating one on first use.
func (h *Handlers) GetAPIKey(c echo.Context) error {
	key := h.service.GetAPIKey(c.Request().Context())
	if key == "" {
		var err error
		key, err = h.service.RegenerateAPIKey(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate API key")
		}
	}
	return c.JSON(http.StatusOK, APIKeyResponse{APIKey: key})
}

// RegenerateAPIKey replaces the API key, invalidating the old one.
func (h *Handlers) RegenerateAPIKey(c echo.Context) error {
	key, err := h.service.RegenerateAPIKey(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to regenerate API key")
	}
	return c.JSON(http.StatusOK, APIKeyResponse{APIKey: key})
}

func isLocalRequest(c echo.Context) bool {
	ip := c.RealIP()
	return ip == "127.0.0.1" || ip == "::1"
}
