package models

import "errors"

// Sentinel errors shared by every store implementation.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the record does not exist or is owned by someone else.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken indicates an account with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
)
