package core

import "errors"

// Common errors.
var (
	ErrPageNotFound = errors.New("page not found")
	ErrEmptyID      = errors.New("page ID cannot be empty")
	ErrDuplicateID  = errors.New("page ID already exists")
)
