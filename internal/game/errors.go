// Package game implements the rule layer: abilities, movement pricing,
// collection, construction, unit factories, and space-port travel. All
// mutations of the game state initiated by players flow through this
// package's services.
package game

import "errors"

// Sentinel error kinds. Services wrap these with context via fmt.Errorf and
// %w; callers classify with errors.Is. The API layer maps them to HTTP
// status codes.
var (
	// ErrNotFound marks a lookup of an entity ID that is not registered.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied marks an action on an entity the player does not
	// own.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidLocation marks an unreachable or nonexistent target space.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInsufficientResource marks a debit the payer cannot cover.
	ErrInsufficientResource = errors.New("insufficient resources")

	// ErrSlotFull marks a space whose building capacity is exhausted.
	ErrSlotFull = errors.New("no building slot available")

	// ErrInvalidInput marks a request that names an unknown type, ability,
	// or direction.
	ErrInvalidInput = errors.New("invalid input")
)
