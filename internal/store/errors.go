package store

import "errors"

// Sentinel errors. Services translate these into domain errors at the edge.
var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)
