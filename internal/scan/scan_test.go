package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdoyonnas/treediff/internal/event"
)

func TestRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "tex.bin"), make([]byte, 50000), 0644))

	set, err := Run(context.Background(), Config{Root: root, Workers: 2})
	require.NoError(t, err)

	// Root dir + assets dir + two files.
	assert.Equal(t, 4, set.Len())

	f, ok := set.Get("assets")
	require.True(t, ok)
	assert.True(t, f.IsDir)
	assert.Nil(t, f.Chunks)

	f, ok = set.Get(filepath.Join("assets", "tex.bin"))
	require.True(t, ok)
	assert.False(t, f.IsDir)
	assert.NotEmpty(t, f.Chunks)
}

func TestRunDeterministic(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.bin"), make([]byte, 30000), 0644))

	first, err := Run(context.Background(), Config{Root: root})
	require.NoError(t, err)
	second, err := Run(context.Background(), Config{Root: root})
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for _, p := range first.Paths() {
		a, _ := first.Get(p)
		b, ok := second.Get(p)
		require.True(t, ok)
		assert.True(t, a.EqualContent(b), "path %s", p)
	}
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := Run(ctx, Config{Root: root, Workers: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, set)
}

func TestRunMissingRoot(t *testing.T) {
	_, err := Run(context.Background(), Config{
		Root: filepath.Join(t.TempDir(), "nope"),
	})
	assert.Error(t, err)
}

func TestRunRootNotDir(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Run(context.Background(), Config{Root: file})
	assert.Error(t, err)
}

func TestRunEmitsEvents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644))

	events := make(chan event.Event, 64)
	_, err := Run(context.Background(), Config{Root: root, Events: events})
	require.NoError(t, err)
	close(events)

	seen := make(map[event.Type]int)
	for ev := range events {
		seen[ev.Type]++
	}
	assert.Equal(t, 1, seen[event.ScanStarted])
	assert.Equal(t, 1, seen[event.WalkComplete])
	assert.Equal(t, 1, seen[event.FileHashed])
	assert.Equal(t, 1, seen[event.ScanComplete])
}
