// Package middleware holds Cadenza's hand-rolled Echo middleware:
// hardening headers, a same-origin CORS policy, and a blocker for
// open-proxy probes.
package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders sets browser hardening headers on every response.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			// Prevent MIME type sniffing
			h.Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			h.Set("X-Frame-Options", "SAMEORIGIN")

			// Enable XSS filter in older browsers
			h.Set("X-XSS-Protection", "1; mode=block")

			// Control referrer information
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Prevent content from being loaded in other sites' iframes
			h.Set("Content-Security-Policy", "frame-ancestors 'self'")

			// Search results and auth state are per-moment data; never cache
			if strings.HasPrefix(c.Request().URL.Path, "/api") {
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
				h.Set("Pragma", "no-cache")
			}

			return next(c)
		}
	}
}

// SameOriginCORS allows browser requests only when the Origin hostname
// matches the hostname the request was addressed to. The UI is served
// from the same binary, so anything else is a cross-site caller.
func SameOriginCORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" {
				// Same-origin fetches and non-browser clients send no Origin.
				return next(c)
			}

			parsed, err := url.Parse(origin)
			if err != nil || !strings.EqualFold(parsed.Hostname(), requestHostname(c)) {
				return echo.NewHTTPError(http.StatusForbidden, "cross-origin requests are not allowed")
			}

			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Add(echo.HeaderVary, echo.HeaderOrigin)

			if c.Request().Method == http.MethodOptions {
				h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
				h.Set(echo.HeaderAccessControlAllowHeaders, "Origin, Content-Type, Accept, Authorization, X-Api-Key")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

func requestHostname(c echo.Context) string {
	host := c.Request().Host
	if hostname, _, err := net.SplitHostPort(host); err == nil {
		return hostname
	}
	return host
}

// ProxyRequestBlock rejects absolute-form request URIs
// (GET http://example.com/) sent by clients probing for open proxies.
func ProxyRequestBlock() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.IsAbs() {
				return echo.NewHTTPError(http.StatusBadRequest, "absolute-form request URIs are not served")
			}
			return next(c)
		}
	}
}
