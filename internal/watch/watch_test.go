package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInvokesOnStartAndChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kiln.yaml")
	require.NoError(t, os.WriteFile(file, []byte("tables: []\n"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(file, 20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("tables:\n  - tableName: a\n"), 0o644))

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "kiln.yaml"), 0, func(context.Context) error { return nil }, nil)
	assert.Error(t, err)
}
