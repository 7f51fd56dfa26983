package middleware // middleware contains reusable HTTP middleware for the API

import (
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming for the Authorization header

	"github.com/labstack/echo/v4" // Echo framework used for middleware chaining

	"github.com/iliyamo/ludo-board-api/internal/auth" // token verification
)

// PlayerIDKey is the echo context key under which RequireToken stores the
// authenticated player's id.
const PlayerIDKey = "player_id"

// RequireToken returns an Echo middleware that validates a Bearer token of
// the given type and injects the token's subject into the request context.
// Access-protected routes pass auth.TokenTypeAccess; the refresh endpoint
// passes auth.TokenTypeRefresh. Every failure (missing header, bad
// signature, expired token, wrong type) produces the same 401 body so a
// caller cannot probe which check rejected it.
//
// The middleware never touches the store: ownership comparison against the
// extracted id is the handlers' job.
func RequireToken(issuer *auth.TokenIssuer, tokenType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the token.
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			playerID, err := issuer.Verify(raw, tokenType)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// Handlers read the subject back via middleware.AuthedPlayerID.
			c.Set(PlayerIDKey, playerID)
			return next(c)
		}
	}
}

// AuthedPlayerID extracts the player id stored by RequireToken. The second
// return value is false when the request never passed the middleware.
func AuthedPlayerID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(PlayerIDKey).(uint64)
	return id, ok
}
