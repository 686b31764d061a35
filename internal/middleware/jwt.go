package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/filmes-api/internal/problem"
)

// JWTAuth validates a Bearer HS256 access token and stores its subject and
// role claims in the context.  The secret must match the one used by
// utils.NewAccessToken.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims := jwt.MapClaims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !tok.Valid {
				return unauthorized(c, "invalid token")
			}
			if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
				return unauthorized(c, "invalid token type")
			}

			sub, _ := claims.GetSubject()
			c.Set(ctxSubject, sub)
			c.Set(ctxRole, claims["role"])
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, detail string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return problem.Send(c, problem.New(
		problem.WithStatus(http.StatusUnauthorized),
		problem.WithDetail(detail),
		problem.WithInstance(c.Request().URL.Path),
	))
}
