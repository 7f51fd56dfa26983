package model

import "time"

// Game statuses accepted by create and update operations.
const (
	GameStatusOngoing  = "ongoing"
	GameStatusFinished = "finished"
	GameStatusPaused   = "paused"
)

// Game represents a row in the `games` table. Games carry no owner; any
// authenticated player may create or modify them. Moves reference games
// through a plain foreign key, there is no back-pointer from Game to its
// moves (use MoveStore.ListByGame instead).
type Game struct {
	ID        uint64    `json:"id"`         // games.id
	Status    string    `json:"status"`     // games.status (ongoing|finished|paused)
	CreatedAt time.Time `json:"created_at"` // games.created_at
}

// ValidGameStatus reports whether s is one of the accepted status values.
func ValidGameStatus(s string) bool {
	switch s {
	case GameStatusOngoing, GameStatusFinished, GameStatusPaused:
		return true
	}
	return false
}
