package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oritang/bookstore-auth/internal/token"
)

// RequireAccessToken validates the Bearer access token on protected
// routes and injects the subject id and roles into the request context
// under "user_id" and "roles". Refresh tokens are rejected here; they
// are only accepted by the reissue and logout endpoints.
func RequireAccessToken(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			if err := codec.Validate(auth); err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			kind, err := codec.TokenKind(auth)
			if err != nil || kind != token.KindAccess {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			userID, err := codec.UserID(auth)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			roles, err := codec.Roles(auth)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set("user_id", userID)
			c.Set("roles", roles)
			return next(c)
		}
	}
}
