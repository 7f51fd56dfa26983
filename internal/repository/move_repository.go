package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/ludo-board-api/internal/model"
)

// MoveRepo persists moves in the `moves` table.
type MoveRepo struct{ DB *sql.DB }

func NewMoveRepo(db *sql.DB) *MoveRepo { return &MoveRepo{DB: db} }

const moveColumns = "id, player_id, game_id, dice_roll, piece_id, position, created_at"

// Create inserts a move and returns the stored row. A foreign-key failure
// (the referenced player or game vanished after the handler's existence
// check) maps to ErrConflict.
func (r *MoveRepo) Create(ctx context.Context, m model.Move) (model.Move, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO moves (player_id, game_id, dice_roll, piece_id, position, created_at) VALUES (?,?,?,?,?,UTC_TIMESTAMP())",
		m.PlayerID, m.GameID, m.DiceRoll, m.PieceID, m.Position)
	if err != nil {
		if fkError(err) {
			return model.Move{}, ErrConflict
		}
		return model.Move{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Move{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a move by id.
func (r *MoveRepo) GetByID(ctx context.Context, id uint64) (model.Move, error) {
	var m model.Move
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+moveColumns+" FROM moves WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.PlayerID, &m.GameID, &m.DiceRoll, &m.PieceID, &m.Position, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Move{}, ErrNotFound
	}
	return m, err
}

// List returns all moves ordered by id.
func (r *MoveRepo) List(ctx context.Context) ([]model.Move, error) {
	return r.listWhere(ctx, "", nil)
}

// ListByGame returns the moves of one game ordered by id.
func (r *MoveRepo) ListByGame(ctx context.Context, gameID uint64) ([]model.Move, error) {
	return r.listWhere(ctx, "WHERE game_id=?", []interface{}{gameID})
}

// ListByPlayer returns the moves of one player ordered by id.
func (r *MoveRepo) ListByPlayer(ctx context.Context, playerID uint64) ([]model.Move, error) {
	return r.listWhere(ctx, "WHERE player_id=?", []interface{}{playerID})
}

// Update writes the mutable columns of a move and returns the stored row.
func (r *MoveRepo) Update(ctx context.Context, m model.Move) (model.Move, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE moves SET player_id=?, game_id=?, dice_roll=?, piece_id=?, position=? WHERE id=?",
		m.PlayerID, m.GameID, m.DiceRoll, m.PieceID, m.Position, m.ID)
	if err != nil {
		if fkError(err) {
			return model.Move{}, ErrConflict
		}
		return model.Move{}, err
	}
	return r.GetByID(ctx, m.ID)
}

// Delete removes a move. Returns ErrNotFound when the move does not exist.
func (r *MoveRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM moves WHERE id=?", id)
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
	return nil
}

func (r *MoveRepo) listWhere(ctx context.Context, where string, args []interface{}) ([]model.Move, error) {
	q := "SELECT " + moveColumns + " FROM moves " + where + " ORDER BY id"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moves := []model.Move{}
	for rows.Next() {
		var m model.Move
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.GameID, &m.DiceRoll, &m.PieceID, &m.Position, &m.CreatedAt); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// fkError reports whether err is a MySQL foreign-key constraint failure
// (errors 1452 on insert/update and 1451 on delete).
func fkError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "1452") || strings.Contains(msg, "1451")
}
