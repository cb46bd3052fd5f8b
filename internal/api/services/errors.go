package services

import "errors"

// Sentinel errors handlers translate into HTTP statuses. Services wrap raw
// storage errors so nothing database-specific leaks past this package.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("invalid input")
)
