// Package repository defines sentinel error values shared by the SQL
// repositories. Handlers match on these to choose an HTTP status instead of
// inspecting driver error strings themselves.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist. Handlers
// translate it into a 404 response.
var ErrNotFound = errors.New("record not found")

// ErrNameExists is returned when an insert or update would violate the
// unique constraint on players.name. Handlers translate it into a 409.
var ErrNameExists = errors.New("username already exists")

// ErrEmailExists is returned when an insert or update would violate the
// unique constraint on players.email. Handlers translate it into a 409.
var ErrEmailExists = errors.New("email already registered")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as a move referencing a player or game that was
// deleted between the handler's existence check and the insert.
var ErrConflict = errors.New("conflict")
