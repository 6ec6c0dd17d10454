package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// AferoStorage implements Storage on an afero filesystem.
type AferoStorage struct {
	fs       afero.Fs
	basePath string
}

// NewFilesystemStorage creates storage on the local filesystem rooted at
// basePath.
func NewFilesystemStorage(basePath string) *AferoStorage {
	return NewAferoStorage(afero.NewOsFs(), basePath)
}

// NewMemoryStorage creates in-memory storage.
func NewMemoryStorage() *AferoStorage {
	return NewAferoStorage(afero.NewMemMapFs(), "")
}

// NewAferoStorage creates storage on any afero filesystem.
func NewAferoStorage(fsys afero.Fs, basePath string) *AferoStorage {
	return &AferoStorage{fs: fsys, basePath: basePath}
}

// resolvePath resolves a path relative to the base path.
func (s *AferoStorage) resolvePath(path string) string {
	if filepath.IsAbs(path) || s.basePath == "" {
		return path
	}
	return filepath.Join(s.basePath, path)
}

// Read reads contents from a path.
func (s *AferoStorage) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := afero.ReadFile(s.fs, s.resolvePath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Create writes contents to a new file, failing with ErrExists if the path
// is taken.
func (s *AferoStorage) Create(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := s.resolvePath(path)
	if err := s.fs.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := s.fs.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}

// Exists checks if a path exists.
func (s *AferoStorage) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ok, err := afero.Exists(s.fs, s.resolvePath(path))
	if err != nil {
		return false, fmt.Errorf("failed to check file: %w", err)
	}
	return ok, nil
}

// List lists the names of the files in dir, sorted.
func (s *AferoStorage) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(s.fs, s.resolvePath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

var _ Storage = (*AferoStorage)(nil)
