package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ludo-board-api/internal/middleware"
	"github.com/iliyamo/ludo-board-api/internal/repository"
	"github.com/iliyamo/ludo-board-api/internal/validate"
)

// PlayerHandler serves the player CRUD endpoints. Reads are public;
// mutations are owner-scoped, compared against the subject extracted by the
// token middleware.
type PlayerHandler struct {
	Players repository.PlayerStore
}

func NewPlayerHandler(players repository.PlayerStore) *PlayerHandler {
	return &PlayerHandler{Players: players}
}

// playerPatchReq carries the updatable fields of a profile. Pointer fields
// distinguish "absent" from "zero". The id and password hash are not
// bindable here, so a client cannot smuggle them through a PATCH body.
type playerPatchReq struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Score *int    `json:"score"`
}

// List handles GET /api/players.
func (h *PlayerHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	players, err := h.Players.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve players"})
	}
	return c.JSON(http.StatusOK, players)
}

// Get handles GET /api/players/:id.
func (h *PlayerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	player, err := h.Players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Player not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve player"})
	}
	return c.JSON(http.StatusOK, player)
}

// Update handles PATCH /api/players/:id. The ownership comparison runs
// before anything touches the store: a caller holding player A's token can
// never learn whether player B exists through this endpoint.
func (h *PlayerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	authedID, ok := middleware.AuthedPlayerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	if authedID != id {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req playerPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	player, err := h.Players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Player not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update player"})
	}

	if req.Name != nil {
		if verr := validate.PlayerName(*req.Name); verr != nil {
			return fieldError(c, verr)
		}
		player.Name = *req.Name
	}
	if req.Email != nil {
		if *req.Email == "" {
			player.Email = nil
		} else {
			if verr := validate.Email(*req.Email); verr != nil {
				return fieldError(c, verr)
			}
			player.Email = req.Email
		}
	}
	if req.Score != nil {
		if verr := validate.Score(*req.Score); verr != nil {
			return fieldError(c, verr)
		}
		player.Score = *req.Score
	}

	updated, err := h.Players.Update(ctx, player)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Username already exists"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update player"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/players/:id. The store removes the player's
// moves and the player row in one transaction, so no orphaned moves remain.
func (h *PlayerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	authedID, ok := middleware.AuthedPlayerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	if authedID != id {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Players.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Player not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete player"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Player %d deleted successfully", id)})
}
