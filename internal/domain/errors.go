package domain

import "errors"

var (
	// ErrNotFound is returned by storage lookups for ids that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest marks a request body that is not a JSON object of the expected shape.
	ErrInvalidRequest = errors.New("not a JSON")
)
