package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shade/internal/adapters/watcher"
	"go.trai.ch/shade/internal/core/ports"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()

	w := watcher.NewWatcher(nil)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	// Duplicated directories are watched once.
	require.NoError(t, w.Start(ctx, []string{dir, dir + string(os.PathSeparator)}))

	source := filepath.Join(dir, "a.vert")
	require.NoError(t, os.WriteFile(source, []byte("void main() {}"), 0o600))

	events := make(chan ports.WatchEvent, 1)
	go func() {
		for event := range w.Events() {
			if event.Path == source {
				events <- event
				return
			}
		}
	}()

	select {
	case event := <-events:
		assert.Equal(t, source, event.Path)
		assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, event.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := watcher.NewWatcher(nil)
	t.Cleanup(func() { _ = w.Stop() })

	err := w.Start(t.Context(), []string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch directory")
}

func TestWatcher_EventsEndOnStop(t *testing.T) {
	w := watcher.NewWatcher(nil)

	require.NoError(t, w.Start(t.Context(), []string{t.TempDir()}))

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events iterator did not end after Stop")
	}
}
