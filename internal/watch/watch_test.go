package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.hcl")
	other := filepath.Join(dir, "other.hcl")
	require.NoError(t, os.WriteFile(path, []byte("# v1\n"), 0o644))

	var reloads atomic.Int32
	var seen atomic.Value
	w, err := New(path, 20*time.Millisecond, func(_ context.Context, p string) error {
		seen.Store(p)
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx), "second start is a no-op")
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("# v2\n"), 0o644))

	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, seen.Load())

	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
}

func TestWatcher_StartFailsForMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "frame.hcl"), 0, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	assert.False(t, w.IsRunning())
	assert.NoError(t, w.Stop())
}
