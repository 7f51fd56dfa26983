package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ludo-board-api/internal/repository"
	"github.com/iliyamo/ludo-board-api/internal/validate"
)

// GameHandler serves the game CRUD endpoints. Games carry no owner: any
// authenticated player may create, update or delete them, which is why these
// routes sit behind the access-token middleware but perform no ownership
// comparison of their own.
type GameHandler struct {
	Games repository.GameStore
}

func NewGameHandler(games repository.GameStore) *GameHandler {
	return &GameHandler{Games: games}
}

type gameCreateReq struct {
	Status string `json:"status"`
}

type gamePatchReq struct {
	Status *string `json:"status"`
}

// List handles GET /api/games.
func (h *GameHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	games, err := h.Games.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve games"})
	}
	return c.JSON(http.StatusOK, games)
}

// Get handles GET /api/games/:id.
func (h *GameHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	game, err := h.Games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve game"})
	}
	return c.JSON(http.StatusOK, game)
}

// Create handles POST /api/games.
func (h *GameHandler) Create(c echo.Context) error {
	var req gameCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if verr := validate.GameStatus(req.Status); verr != nil {
		return fieldError(c, verr)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	game, err := h.Games.Create(ctx, req.Status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create game"})
	}
	return c.JSON(http.StatusCreated, game)
}

// Update handles PATCH /api/games/:id.
func (h *GameHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req gamePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	game, err := h.Games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update game"})
	}

	if req.Status != nil {
		if verr := validate.GameStatus(*req.Status); verr != nil {
			return fieldError(c, verr)
		}
		game.Status = *req.Status
	}

	updated, err := h.Games.Update(ctx, game)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update game"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/games/:id. The game's moves go with it.
func (h *GameHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Games.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete game"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Game %d deleted successfully", id)})
}
