package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ClaimsContextKey is the echo context key under which validated JWT
// claims are stored.
const ClaimsContextKey = "auth_claims"

// Middleware returns an echo middleware that rejects requests lacking a
// valid session token or API key. The X-Api-Key header is checked first
// so non-browser clients can skip the login flow.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key := c.Request().Header.Get("X-Api-Key"); key != "" {
				if s.ValidateAPIKey(c.Request().Context(), key) {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid API key")
			}

			token := extractBearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid authorization header")
			}

			claims, err := s.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}
