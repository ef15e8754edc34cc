package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const authContextKey = "auth_context"

// ExtractBearerToken pulls the bearer token out of an Authorization header.
// Returns "" when no well-formed bearer credential is present.
func ExtractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Middleware resolves the request credential into an authentication Context
// and stores it on the echo context. It never rejects requests itself;
// verification failures ride along as the context's authError so that
// Require can produce a precise denial.
func Middleware(authn *Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ExtractBearerToken(c.Request().Header.Get("Authorization"))
			ac, err := authn.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return echo.NewHTTPError(503, "authentication backend unavailable")
			}
			c.Set(authContextKey, ac)
			return next(c)
		}
	}
}

// FromEcho returns the request's authentication Context. Requests that never
// passed through Middleware get a fresh anonymous context.
func FromEcho(c echo.Context) *Context {
	if ac, ok := c.Get(authContextKey).(*Context); ok {
		return ac
	}
	return &Context{}
}

// Require guards a route with the shield rule mapped to operation. Denials
// are serialized with their machine-readable code and message.
func Require(shield *Shield, operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if d := shield.Authorize(FromEcho(c), operation); d != nil {
				return c.JSON(d.HTTPStatus(), d)
			}
			return next(c)
		}
	}
}
