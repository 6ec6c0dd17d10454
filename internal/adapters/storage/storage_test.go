package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestMemoryStorage_CreateRead(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	content := []byte("hello world")
	if err := storage.Create(ctx, "dir/test.txt", content); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result, err := storage.Read(ctx, "dir/test.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(result) != string(content) {
		t.Errorf("Expected %q, got %q", content, result)
	}
	if exists, _ := storage.Exists(ctx, "dir/test.txt"); !exists {
		t.Error("File should exist after create")
	}
}

func TestMemoryStorage_ReadMissing(t *testing.T) {
	_, err := NewMemoryStorage().Read(context.Background(), "missing.json")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorage_CreateIsExclusive(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	if err := storage.Create(ctx, "m/1.json", []byte("a")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := storage.Create(ctx, "m/1.json", []byte("b"))
	if !errors.Is(err, ErrExists) {
		t.Fatalf("Expected ErrExists, got %v", err)
	}

	got, _ := storage.Read(ctx, "m/1.json")
	if string(got) != "a" {
		t.Errorf("Existing file was overwritten: %q", got)
	}
}

func TestAferoStorage_List(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	storage := NewAferoStorage(fsys, "")

	files, err := storage.List(ctx, "migrations")
	if err != nil {
		t.Fatalf("List of missing dir failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected empty list, got %v", files)
	}

	_ = storage.Create(ctx, "migrations/2.json", []byte("{}"))
	_ = storage.Create(ctx, "migrations/1.json", []byte("{}"))
	_ = fsys.MkdirAll("migrations/nested", 0o755)

	files, err = storage.List(ctx, "migrations")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 2 || files[0] != "1.json" || files[1] != "2.json" {
		t.Errorf("Expected [1.json 2.json], got %v", files)
	}
}

func TestAferoStorage_BasePath(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	storage := NewAferoStorage(fsys, "/project")

	if err := storage.Create(ctx, "migrations/1.json", []byte("{}")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ok, _ := afero.Exists(fsys, "/project/migrations/1.json"); !ok {
		t.Error("Expected file under base path")
	}
}

func TestAferoStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMemoryStorage().Read(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}
