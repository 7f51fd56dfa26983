// Package validate enforces the shape rules for registration input and for
// player, game and move fields. Checks run in a fixed order and the first
// failure wins, so clients always see one field-tagged message at a time.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/iliyamo/ludo-board-api/internal/model"
)

// emailRegex matches local@domain.tld with at least a two-letter TLD.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Error is a field-tagged validation failure. Handlers translate it into a
// 400 response keyed by the offending field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Registration checks proposed credentials in order: presence of name and
// password, name length after trimming, email shape when an email was
// given, then password strength. It returns the trimmed name and a
// normalized email pointer (nil when the input was empty).
func Registration(name string, email *string, password string) (string, *string, *Error) {
	if strings.TrimSpace(name) == "" {
		return "", nil, &Error{Field: "name", Message: "Username is required"}
	}
	if password == "" {
		return "", nil, &Error{Field: "password", Message: "Password is required"}
	}
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return "", nil, &Error{Field: "name", Message: "Username must be at least 3 characters long"}
	}
	if len(name) > 50 {
		return "", nil, &Error{Field: "name", Message: "Username must be less than 50 characters"}
	}
	email = normalizeEmail(email)
	if email != nil && !emailRegex.MatchString(*email) {
		return "", nil, &Error{Field: "email", Message: "Invalid email format"}
	}
	if err := Password(password); err != nil {
		return "", nil, err
	}
	return name, email, nil
}

// Password applies the strength policy. Rules are checked in a fixed order
// (length, uppercase, lowercase, digit) and each unmet rule has its own
// message.
func Password(password string) *Error {
	if len(password) < 8 {
		return &Error{Field: "password", Message: "Password must be at least 8 characters long"}
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return &Error{Field: "password", Message: "Password must contain at least one uppercase letter"}
	}
	if !hasLower {
		return &Error{Field: "password", Message: "Password must contain at least one lowercase letter"}
	}
	if !hasDigit {
		return &Error{Field: "password", Message: "Password must contain at least one number"}
	}
	return nil
}

// Email checks shape only; emptiness is handled by the caller since email
// is optional everywhere it appears.
func Email(email string) *Error {
	if !emailRegex.MatchString(email) {
		return &Error{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

// PlayerName validates a name supplied on a profile update. Unlike
// registration the lower bound is 1: the original API accepted short
// display names on update.
func PlayerName(name string) *Error {
	if name == "" {
		return &Error{Field: "name", Message: "Username is required"}
	}
	if len(name) > 50 {
		return &Error{Field: "name", Message: "Username must be less than 50 characters"}
	}
	return nil
}

// Score rejects negative scores.
func Score(score int) *Error {
	if score < 0 {
		return &Error{Field: "score", Message: "Score must not be negative"}
	}
	return nil
}

// GameStatus validates the status enum on game create/update.
func GameStatus(status string) *Error {
	if !model.ValidGameStatus(status) {
		return &Error{Field: "status", Message: "Status must be one of: ongoing, finished, paused"}
	}
	return nil
}

// MoveFields validates the dice roll, piece id and board position ranges.
func MoveFields(diceRoll, pieceID, position int) *Error {
	if diceRoll < model.MinDiceRoll || diceRoll > model.MaxDiceRoll {
		return &Error{Field: "dice_roll", Message: "Dice roll must be between 1 and 6"}
	}
	if pieceID < model.MinPieceID || pieceID > model.MaxPieceID {
		return &Error{Field: "piece_id", Message: "Piece id must be between 1 and 4"}
	}
	if position < model.MinPosition || position > model.MaxPosition {
		return &Error{Field: "position", Message: "Position must be between 0 and 57"}
	}
	return nil
}

// normalizeEmail trims the address and collapses empty input to nil so an
// absent email never collides with another absent email.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	v := strings.TrimSpace(*email)
	if v == "" {
		return nil
	}
	return &v
}
