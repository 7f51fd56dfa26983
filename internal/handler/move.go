package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ludo-board-api/internal/middleware"
	"github.com/iliyamo/ludo-board-api/internal/model"
	"github.com/iliyamo/ludo-board-api/internal/queue"
	"github.com/iliyamo/ludo-board-api/internal/repository"
	"github.com/iliyamo/ludo-board-api/internal/validate"
)

// MoveHandler serves the move CRUD endpoints. Mutations are owner-scoped
// against the move's player_id: a caller may only record, change or delete
// moves belonging to their own player. Publish, when set, is invoked after
// a successful create; failures there never affect the response.
type MoveHandler struct {
	Moves   repository.MoveStore
	Players repository.PlayerStore
	Games   repository.GameStore
	Publish func(ctx context.Context, ev queue.MoveRecordedEvent) error
}

func NewMoveHandler(moves repository.MoveStore, players repository.PlayerStore, games repository.GameStore) *MoveHandler {
	return &MoveHandler{Moves: moves, Players: players, Games: games}
}

// moveCreateReq uses pointers so missing required fields can be told apart
// from zero values.
type moveCreateReq struct {
	PlayerID *uint64 `json:"player_id"`
	GameID   *uint64 `json:"game_id"`
	DiceRoll *int    `json:"dice_roll"`
	PieceID  *int    `json:"piece_id"`
	Position *int    `json:"position"`
}

type movePatchReq struct {
	PlayerID *uint64 `json:"player_id"`
	GameID   *uint64 `json:"game_id"`
	DiceRoll *int    `json:"dice_roll"`
	PieceID  *int    `json:"piece_id"`
	Position *int    `json:"position"`
}

// List handles GET /api/moves.
func (h *MoveHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	moves, err := h.Moves.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve moves"})
	}
	return c.JSON(http.StatusOK, moves)
}

// ListByGame handles GET /api/games/:id/moves. An unknown game id simply
// yields an empty list, matching the list semantics of the other read
// endpoints.
func (h *MoveHandler) ListByGame(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	moves, err := h.Moves.ListByGame(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve moves"})
	}
	return c.JSON(http.StatusOK, moves)
}

// Get handles GET /api/moves/:id.
func (h *MoveHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	move, err := h.Moves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Move not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve move"})
	}
	return c.JSON(http.StatusOK, move)
}

// Create handles POST /api/moves. The authenticated subject must match the
// move's player_id; that check runs before the referenced player and game
// are looked up, so a caller cannot record moves for anyone else even when
// the target ids do not exist.
func (h *MoveHandler) Create(c echo.Context) error {
	authedID, ok := middleware.AuthedPlayerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	var req moveCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PlayerID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"player_id": []string{"Player id is required"}})
	}
	if req.GameID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"game_id": []string{"Game id is required"}})
	}
	if req.DiceRoll == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"dice_roll": []string{"Dice roll is required"}})
	}
	if req.PieceID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"piece_id": []string{"Piece id is required"}})
	}
	if req.Position == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"position": []string{"Position is required"}})
	}
	if verr := validate.MoveFields(*req.DiceRoll, *req.PieceID, *req.Position); verr != nil {
		return fieldError(c, verr)
	}

	if *req.PlayerID != authedID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Players.GetByID(ctx, *req.PlayerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"player_id": []string{"Player not found"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create move"})
	}
	if _, err := h.Games.GetByID(ctx, *req.GameID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"game_id": []string{"Game not found"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create move"})
	}

	move, err := h.Moves.Create(ctx, model.Move{
		PlayerID: *req.PlayerID,
		GameID:   *req.GameID,
		DiceRoll: *req.DiceRoll,
		PieceID:  *req.PieceID,
		Position: *req.Position,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Referenced row vanished between the existence check and the
			// insert; the FK constraint is the authority.
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create move"})
	}

	if h.Publish != nil {
		ev := queue.MoveRecordedEvent{
			MoveID:     move.ID,
			PlayerID:   move.PlayerID,
			GameID:     move.GameID,
			DiceRoll:   move.DiceRoll,
			PieceID:    move.PieceID,
			Position:   move.Position,
			RecordedAt: move.CreatedAt.UTC().Format(time.RFC3339),
		}
		// Fire and forget: the move is committed, downstream consumers are
		// best-effort.
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), dbTimeout)
			defer pubCancel()
			_ = h.Publish(pubCtx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, move)
}

// Update handles PATCH /api/moves/:id. Ownership is checked against the
// stored move, and a patched player_id must still belong to the caller.
func (h *MoveHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	authedID, ok := middleware.AuthedPlayerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	var req movePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	move, err := h.Moves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Move not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update move"})
	}
	if move.PlayerID != authedID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.PlayerID != nil {
		if *req.PlayerID != authedID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if _, err := h.Players.GetByID(ctx, *req.PlayerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"player_id": []string{"Player not found"}})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update move"})
		}
		move.PlayerID = *req.PlayerID
	}
	if req.GameID != nil {
		if _, err := h.Games.GetByID(ctx, *req.GameID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"game_id": []string{"Game not found"}})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update move"})
		}
		move.GameID = *req.GameID
	}
	if req.DiceRoll != nil {
		move.DiceRoll = *req.DiceRoll
	}
	if req.PieceID != nil {
		move.PieceID = *req.PieceID
	}
	if req.Position != nil {
		move.Position = *req.Position
	}
	if verr := validate.MoveFields(move.DiceRoll, move.PieceID, move.Position); verr != nil {
		return fieldError(c, verr)
	}

	updated, err := h.Moves.Update(ctx, move)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update move"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/moves/:id.
func (h *MoveHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	authedID, ok := middleware.AuthedPlayerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	move, err := h.Moves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Move not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete move"})
	}
	if move.PlayerID != authedID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Moves.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Move not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete move"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Move %d deleted successfully", id)})
}
