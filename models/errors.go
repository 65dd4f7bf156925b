package models

import "errors"

// Storage-level errors returned by the repositories.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with an existing one")
)
