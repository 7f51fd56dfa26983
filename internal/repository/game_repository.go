package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ludo-board-api/internal/model"
)

// GameRepo persists games in the `games` table.
type GameRepo struct{ DB *sql.DB }

func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{DB: db} }

// Create inserts a game with the given status and returns the stored row.
func (r *GameRepo) Create(ctx context.Context, status string) (model.Game, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO games (status, created_at) VALUES (?,UTC_TIMESTAMP())", status)
	if err != nil {
		return model.Game{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Game{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a game by id.
func (r *GameRepo) GetByID(ctx context.Context, id uint64) (model.Game, error) {
	var g model.Game
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, status, created_at FROM games WHERE id=? LIMIT 1", id).
		Scan(&g.ID, &g.Status, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Game{}, ErrNotFound
	}
	return g, err
}

// List returns all games ordered by id.
func (r *GameRepo) List(ctx context.Context) ([]model.Game, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, status, created_at FROM games ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.Status, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Update writes the game's status and returns the stored row.
func (r *GameRepo) Update(ctx context.Context, g model.Game) (model.Game, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE games SET status=? WHERE id=?", g.Status, g.ID)
	if err != nil {
		return model.Game{}, err
	}
	return r.GetByID(ctx, g.ID)
}

// Delete removes the game's moves and then the game row inside a single
// transaction. Returns ErrNotFound when the game does not exist.
func (r *GameRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM moves WHERE game_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM games WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
