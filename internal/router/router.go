package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/iliyamo/ludo-board-api/internal/auth"       // token types for the guard
	"github.com/iliyamo/ludo-board-api/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/ludo-board-api/internal/middleware" // token guard and caching
)

// RegisterRoutes registers routes that require no authentication and no
// handler state. Currently that is only the health check used by load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication endpoints under /api/auth. The
// register, login and check-username operations are open; refresh requires
// a refresh-typed token and me an access-typed one. The guard only decodes
// the token — it never consults the store.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/check-username", a.CheckUsername)
	g.POST("/refresh", a.Refresh, middleware.RequireToken(a.Tokens, auth.TokenTypeRefresh))
	g.GET("/me", a.Me, middleware.RequireToken(a.Tokens, auth.TokenTypeAccess))
}

// RegisterResources wires the player, game and move endpoints under /api.
// Reads are public and flow through the response cache; mutations require
// a valid access token. Ownership checks live inside the handlers, which
// compare the token subject against the resource's player id.
func RegisterResources(e *echo.Echo, players *handler.PlayerHandler, games *handler.GameHandler, moves *handler.MoveHandler, issuer *auth.TokenIssuer, cache echo.MiddlewareFunc) {
	pub := e.Group("/api", cache)
	pub.GET("/players", players.List)
	pub.GET("/players/:id", players.Get)
	pub.GET("/games", games.List)
	pub.GET("/games/:id", games.Get)
	pub.GET("/games/:id/moves", moves.ListByGame)
	pub.GET("/moves", moves.List)
	pub.GET("/moves/:id", moves.Get)

	sec := e.Group("/api", middleware.RequireToken(issuer, auth.TokenTypeAccess))
	sec.PATCH("/players/:id", players.Update)
	sec.DELETE("/players/:id", players.Delete)
	sec.POST("/games", games.Create)
	sec.PATCH("/games/:id", games.Update)
	sec.DELETE("/games/:id", games.Delete)
	sec.POST("/moves", moves.Create)
	sec.PATCH("/moves/:id", moves.Update)
	sec.DELETE("/moves/:id", moves.Delete)
}
