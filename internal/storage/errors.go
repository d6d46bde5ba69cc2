package storage

import "greenlane/pkg/platform/sentinel"

var (
	// ErrNotFound keeps storage-specific 404s consistent across the in-memory
	// and PostgreSQL implementations.
	ErrNotFound = sentinel.ErrNotFound
)
