package model

import "time"

// Player represents a registered player as stored in the `players` table.
// The password hash is kept out of every JSON response; handlers rely on
// the `json:"-"` tag rather than stripping the field by hand.
//
// Fields:
//  ID           – primary key identifier of the player.
//  Name         – unique username (3–50 characters).
//  Email        – optional unique email address; nil when not provided.
//  PasswordHash – bcrypt hashed password, never serialized.
//  Score        – accumulated score, defaults to 0.
//  CreatedAt    – timestamp of account creation.
type Player struct {
	ID           uint64    `json:"id"`              // players.id
	Name         string    `json:"name"`            // players.name
	Email        *string   `json:"email"`           // players.email (nullable)
	PasswordHash string    `json:"-"`               // players.password_hash
	Score        int       `json:"score"`           // players.score
	CreatedAt    time.Time `json:"created_at"`      // players.created_at
}
