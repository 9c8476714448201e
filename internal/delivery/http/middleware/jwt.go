package middleware

import (
	"net/http"

	"github.com/LavaJover/shvark-raffle-service/internal/delivery/auth"
	"github.com/LavaJover/shvark-raffle-service/internal/delivery/http/dto/response"
	"github.com/labstack/echo/v4"
)

// JWTAuth rejects requests without a valid bearer token carrying one of
// roles and stores the subject under "user_id".
func JWTAuth(secret string, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := auth.RequireRole(secret, c.Request().Header.Get(echo.HeaderAuthorization), roles...)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
			}
			c.Set("user_id", claims.Subject)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
