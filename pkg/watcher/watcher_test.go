package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0o644))

	fw, err := NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{path}, func(p string) { changed <- p }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid b\n"), 0o644))
	}

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// The burst of writes collapses into a single callback.
	select {
	case <-changed:
		t.Fatal("burst reported more than once")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingFile(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	err = fw.Watch([]string{filepath.Join(t.TempDir(), "missing.stl")}, func(string) {})
	assert.Error(t, err)
}

func TestRemoveAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.scad")
	require.NoError(t, os.WriteFile(path, []byte("cube(1);\n"), 0o644))

	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch([]string{path}, func(string) {}))
	require.NoError(t, fw.RemoveAll())
	assert.Empty(t, fw.callbacks)
}

func TestWatchReportsReplacedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0o644))

	fw, err := NewFileWatcher(20 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch([]string{path}, func(p string) { changed <- p }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	// unrelated files in the same directory stay silent
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	select {
	case p := <-changed:
		t.Fatalf("unexpected change of %s", p)
	case <-time.After(200 * time.Millisecond):
	}

	tmp := filepath.Join(dir, "model.stl.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("solid b\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("replacement not reported")
	}
}

func TestWatchSameDirectoryOnce(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.scad")
	b := filepath.Join(dir, "b.scad")
	for _, p := range []string{a, b} {
		require.NoError(t, os.WriteFile(p, []byte("cube(1);\n"), 0o644))
	}

	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch([]string{a, b, a}, func(string) {}))
	assert.Len(t, fw.callbacks, 2)
	assert.Equal(t, 2, fw.dirs[dir])
}
