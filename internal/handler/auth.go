package handler

import (
	"context"  // context with timeout for DB calls
	"errors"   // sentinel matching
	"net/http" // HTTP status codes
	"strings"  // input trimming

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/ludo-board-api/internal/auth"       // hashing and token issuing
	"github.com/iliyamo/ludo-board-api/internal/middleware" // authenticated subject extraction
	"github.com/iliyamo/ludo-board-api/internal/model"      // player record
	"github.com/iliyamo/ludo-board-api/internal/repository" // store interface and sentinels
	"github.com/iliyamo/ludo-board-api/internal/validate"   // registration shape rules
)

// AuthHandler bundles the dependencies of the auth endpoints. Everything is
// injected, so tests can swap in an in-memory store and a short-lived token
// issuer.
type AuthHandler struct {
	Players    repository.PlayerStore
	Tokens     *auth.TokenIssuer
	BcryptCost int
}

func NewAuthHandler(players repository.PlayerStore, tokens *auth.TokenIssuer, bcryptCost int) *AuthHandler {
	return &AuthHandler{Players: players, Tokens: tokens, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type registerReq struct {
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Password string  `json:"password"`
}
type loginReq struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
type checkNameReq struct {
	Name string `json:"name"`
}

// playerPart is the public view of a player returned by the auth endpoints.
// The password hash never leaves the server.
type playerPart struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Score int     `json:"score"`
}

type authResp struct {
	Message      string     `json:"message"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	Player       playerPart `json:"player"`
}

func toPlayerPart(p model.Player) playerPart {
	return playerPart{ID: p.ID, Name: p.Name, Email: p.Email, Score: p.Score}
}

// Register creates a new player account and returns a token pair. Shape
// rules run first; the uniqueness pre-checks follow so the common duplicate
// case gets a friendly 409 before the insert. The database unique
// constraints stay authoritative: a concurrent duplicate insert surfaces as
// the same 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	name, email, verr := validate.Registration(req.Name, req.Email, req.Password)
	if verr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if taken, err := h.Players.NameExists(ctx, name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	} else if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Username already exists"})
	}
	if email != nil {
		if taken, err := h.Players.EmailExists(ctx, *email); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
		} else if taken {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered"})
		}
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	player, err := h.Players.Create(ctx, name, email, hash)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Username already exists"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	// The account is committed at this point. A token-issuing failure still
	// surfaces as a 500, but the player exists and can log in normally.
	access, err := h.Tokens.IssueAccess(player.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}
	refresh, err := h.Tokens.IssueRefresh(player.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Message:      "Player registered successfully",
		AccessToken:  access,
		RefreshToken: refresh,
		Player:       toPlayerPart(player),
	})
}

// Login verifies credentials and returns a fresh token pair. An unknown
// username and a wrong password produce the identical response so the two
// cases cannot be told apart.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username is required"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password is required"})
	}
	name := strings.TrimSpace(req.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	player, err := h.Players.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}
	if !auth.VerifyPassword(player.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
	}

	access, err := h.Tokens.IssueAccess(player.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}
	refresh, err := h.Tokens.IssueRefresh(player.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Message:      "Login successful",
		AccessToken:  access,
		RefreshToken: refresh,
		Player:       toPlayerPart(player),
	})
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays usable until expiry. The
// route is guarded by RequireToken with the refresh type, so by the time
// this runs the subject has been verified.
func (h *AuthHandler) Refresh(c echo.Context) error {
	playerID, ok := middleware.AuthedPlayerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	access, err := h.Tokens.IssueAccess(playerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Token refresh failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": access})
}

// Me returns the authenticated player's record. Tokens outlive account
// deletion (there is no revocation list), so a structurally valid token may
// reference a player that no longer exists; that case is a 404.
func (h *AuthHandler) Me(c echo.Context) error {
	playerID, ok := middleware.AuthedPlayerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	player, err := h.Players.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get user info"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"player": echo.Map{
			"id":         player.ID,
			"name":       player.Name,
			"email":      player.Email,
			"score":      player.Score,
			"created_at": player.CreatedAt,
		},
	})
}

// CheckUsername reports whether a username is still available. This is a
// best-effort pre-check for signup forms; registration re-checks under the
// unique constraint.
func (h *AuthHandler) CheckUsername(c echo.Context) error {
	var req checkNameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"available": false, "error": "Username is required"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"available": false, "error": "Username is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	taken, err := h.Players.NameExists(ctx, name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": !taken})
}
