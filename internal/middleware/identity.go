package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxSubject = "user_id"
	ctxRole    = "role"
)

// currentUserID returns the token subject stored by JWTAuth, or "anon"
// for unauthenticated requests.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
		return s
	}
	return "anon"
}
