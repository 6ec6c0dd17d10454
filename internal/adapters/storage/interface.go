// Package storage provides file storage adapters for migration records.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a path does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrExists is returned by Create when the path already exists.
	ErrExists = errors.New("file already exists")
)

// Storage defines the storage adapter interface.
type Storage interface {
	// Read reads contents from a path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Create writes contents to a path that must not exist yet.
	Create(ctx context.Context, path string, content []byte) error

	// Exists checks if a path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List lists the entries of a directory. A missing directory is empty.
	List(ctx context.Context, dir string) ([]string, error)
}
