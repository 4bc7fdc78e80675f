package store

import "errors"

// ErrNotFound is returned when a record does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("already exists")
