// Package queue defines message payloads exchanged over the message broker.
package queue

// MoveRecordedEvent is published after a move is successfully stored. It
// carries enough information for downstream consumers to log or feed
// analytics without querying the primary database.
type MoveRecordedEvent struct {
	MoveID     uint64 `json:"move_id"`
	PlayerID   uint64 `json:"player_id"`
	GameID     uint64 `json:"game_id"`
	DiceRoll   int    `json:"dice_roll"`
	PieceID    int    `json:"piece_id"`
	Position   int    `json:"position"`
	RecordedAt string `json:"recorded_at"`
}
