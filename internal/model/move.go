package model

import "time"

// Board position bounds for a move. Position 0 is the home yard, 1–52 the
// shared track, 53–57 the home column with 57 meaning the piece finished.
const (
	MinDiceRoll = 1
	MaxDiceRoll = 6
	MinPieceID  = 1
	MaxPieceID  = 4
	MinPosition = 0
	MaxPosition = 57
)

// Move represents a single dice-rolled move in the `moves` table. It
// references its player and game by id only; ownership checks compare the
// authenticated subject against PlayerID.
type Move struct {
	ID        uint64    `json:"id"`         // moves.id
	PlayerID  uint64    `json:"player_id"`  // moves.player_id (FK players.id)
	GameID    uint64    `json:"game_id"`    // moves.game_id (FK games.id)
	DiceRoll  int       `json:"dice_roll"`  // moves.dice_roll (1–6)
	PieceID   int       `json:"piece_id"`   // moves.piece_id (1–4)
	Position  int       `json:"position"`   // moves.position (0–57)
	CreatedAt time.Time `json:"created_at"` // moves.created_at
}
