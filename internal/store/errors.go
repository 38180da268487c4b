package store

import "errors"

var (
	// ErrNotFound is returned when a write targets an item that doesn't exist.
	ErrNotFound = errors.New("item not found")

	// ErrUnknownIdentifier is returned for queries naming a table or column
	// outside the inventory schema.
	ErrUnknownIdentifier = errors.New("unknown identifier")
)
