// Package storage defines errors shared by the persistence adapters.
package storage

import "errors"

var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a record with the same id is already stored.
	ErrAlreadyExists = errors.New("record already exists")
)
