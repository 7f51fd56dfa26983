package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/ludo-board-api/internal/model"
)

// PlayerRepo persists players in the `players` table.
type PlayerRepo struct{ DB *sql.DB }

func NewPlayerRepo(db *sql.DB) *PlayerRepo { return &PlayerRepo{DB: db} }

const playerColumns = "id, name, email, password_hash, score, created_at"

// Create inserts a new player with a zero score and returns the stored row.
// The unique constraints on name and email are authoritative here: the
// handler's pre-checks only exist to produce a friendly error in the common
// case, so a concurrent duplicate still maps to the right sentinel.
func (r *PlayerRepo) Create(ctx context.Context, name string, email *string, passwordHash string) (model.Player, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO players (name, email, password_hash, score, created_at) VALUES (?,?,?,0,UTC_TIMESTAMP())",
		name, email, passwordHash)
	if err != nil {
		if dup := dupKeyError(err); dup != nil {
			return model.Player{}, dup
		}
		return model.Player{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Player{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a player by id.
func (r *PlayerRepo) GetByID(ctx context.Context, id uint64) (model.Player, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE id=? LIMIT 1", id))
}

// GetByName fetches a player by exact, case-sensitive name.
func (r *PlayerRepo) GetByName(ctx context.Context, name string) (model.Player, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE BINARY name=? LIMIT 1", name))
}

// List returns all players ordered by id.
func (r *PlayerRepo) List(ctx context.Context) ([]model.Player, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+playerColumns+" FROM players ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.Score, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// NameExists reports whether a player with the exact name exists.
func (r *PlayerRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM players WHERE BINARY name=? LIMIT 1", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// EmailExists reports whether a player with the email exists. Absent emails
// are stored as NULL and never collide with one another.
func (r *PlayerRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM players WHERE email=? LIMIT 1", email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Update writes the mutable columns of a player and returns the stored row.
func (r *PlayerRepo) Update(ctx context.Context, p model.Player) (model.Player, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE players SET name=?, email=?, score=? WHERE id=?",
		p.Name, p.Email, p.Score, p.ID)
	if err != nil {
		if dup := dupKeyError(err); dup != nil {
			return model.Player{}, dup
		}
		return model.Player{}, err
	}
	return r.GetByID(ctx, p.ID)
}

// Delete removes the player's moves and then the player row inside a single
// transaction. Returns ErrNotFound when the player does not exist.
func (r *PlayerRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM moves WHERE player_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM players WHERE id=?", id)
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

func (r *PlayerRepo) scanOne(row *sql.Row) (model.Player, error) {
	var p model.Player
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.Score, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, ErrNotFound
	}
	return p, err
}

// dupKeyError maps a MySQL duplicate-key failure (error 1062) to the
// matching sentinel based on which unique key was hit. Returns nil when the
// error is not a duplicate-key violation.
func dupKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "duplicate entry") {
		return nil
	}
	if strings.Contains(msg, "email") {
		return ErrEmailExists
	}
	return ErrNameExists
}
