package repositories

import "errors"

// Every repository implementation reports these, whatever the backend.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
