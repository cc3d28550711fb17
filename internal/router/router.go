// Package router wires the HTTP routes. The middleware chain here is
// the explicit, ordered pipeline through which every auth request
// flows: throttle first, then the handler; protected routes add the
// access token check in front.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/oritang/bookstore-auth/internal/handler"
)

// RegisterRoutes registers routes that need no authentication state.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session lifecycle endpoints. loginMW is
// applied to the login path only (the throttle); the remaining
// endpoints authenticate by token, not by budget.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, loginMW ...echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/login", a.Login, loginMW...)
	g.POST("/reissue-with-refresh-token", a.Reissue)
	g.POST("/logout", a.Logout)
	g.GET("/info", a.Info)
	g.POST("/tokens-for-external-user", a.TokensForExternalUser)
}
