package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/filmes-api/internal/problem"
)

// RequireRole rejects with 403 any request whose role claim, stored by
// JWTAuth, is not one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(string)
			if !ok || !allowed[role] {
				return problem.Send(c, problem.New(
					problem.WithStatus(http.StatusForbidden),
					problem.WithDetail("forbidden"),
					problem.WithInstance(c.Request().URL.Path),
				))
			}
			return next(c)
		}
	}
}

// WritesOnly applies mw to every request except GET, HEAD and OPTIONS.
func WritesOnly(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := mw(next)
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			return guarded(c)
		}
	}
}
