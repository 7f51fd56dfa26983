package repository

import (
	"context"

	"github.com/iliyamo/ludo-board-api/internal/model"
)

// PlayerStore captures the player persistence operations handlers depend
// on. The SQL implementation is PlayerRepo; tests supply in-memory fakes.
type PlayerStore interface {
	Create(ctx context.Context, name string, email *string, passwordHash string) (model.Player, error)
	GetByID(ctx context.Context, id uint64) (model.Player, error)
	GetByName(ctx context.Context, name string) (model.Player, error)
	List(ctx context.Context) ([]model.Player, error)
	NameExists(ctx context.Context, name string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, p model.Player) (model.Player, error)
	// Delete removes the player's moves first, then the player row, inside
	// one transaction so no orphaned moves survive.
	Delete(ctx context.Context, id uint64) error
}

// GameStore captures game persistence operations.
type GameStore interface {
	Create(ctx context.Context, status string) (model.Game, error)
	GetByID(ctx context.Context, id uint64) (model.Game, error)
	List(ctx context.Context) ([]model.Game, error)
	Update(ctx context.Context, g model.Game) (model.Game, error)
	// Delete removes the game's moves first, then the game row.
	Delete(ctx context.Context, id uint64) error
}

// MoveStore captures move persistence operations. Moves reference players
// and games by id only; the per-owner and per-game listings replace the
// bidirectional links the records could otherwise carry.
type MoveStore interface {
	Create(ctx context.Context, m model.Move) (model.Move, error)
	GetByID(ctx context.Context, id uint64) (model.Move, error)
	List(ctx context.Context) ([]model.Move, error)
	ListByGame(ctx context.Context, gameID uint64) ([]model.Move, error)
	ListByPlayer(ctx context.Context, playerID uint64) ([]model.Move, error)
	Update(ctx context.Context, m model.Move) (model.Move, error)
	Delete(ctx context.Context, id uint64) error
}
