package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdoyonnas/treediff/internal/score"
	"github.com/qdoyonnas/treediff/internal/stats"
)

// nameScorer scores paths by a fixed table, for ordering tests.
type nameScorer struct {
	scores map[string]float64
}

func (s nameScorer) Score(path, _ string) float64 {
	return s.scores[filepath.Base(path)]
}

func TestWalkClassifiesEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub1", "sub2"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "root.txt"), []byte("root"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub1", "s1.txt"), []byte("s1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub1", "sub2", "s2.txt"), []byte("s2"), 0644))

	collector := stats.NewCollector()
	result := Walk(root, score.Constant{}, collector, nil)

	// Root itself plus two subdirectories.
	require.Len(t, result.Dirs, 3)
	dirPaths := make([]string, len(result.Dirs))
	for i, d := range result.Dirs {
		assert.True(t, d.IsDir)
		assert.Nil(t, d.Chunks)
		dirPaths[i] = d.RelativePath
	}
	assert.Contains(t, dirPaths, ".")
	assert.Contains(t, dirPaths, "sub1")
	assert.Contains(t, dirPaths, filepath.Join("sub1", "sub2"))

	require.Len(t, result.Files, 3)
	snap := collector.Snapshot()
	assert.Equal(t, int64(3), snap.DirsFound)
	assert.Equal(t, int64(3), snap.FilesFound)
}

func TestWalkIgnoresSymlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.txt"), []byte("x"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link")))

	result := Walk(root, score.Constant{}, stats.NewCollector(), nil)
	require.Len(t, result.Files, 1)
	assert.True(t, strings.HasSuffix(result.Files[0].Path, "real.txt"))
}

func TestWalkPriorityOrdering(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"low.txt", "high.txt", "mid.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0644))
	}

	scorer := nameScorer{scores: map[string]float64{
		"high.txt": 10,
		"mid.txt":  5,
		"low.txt":  1,
	}}
	result := Walk(root, scorer, stats.NewCollector(), nil)

	require.Len(t, result.Files, 3)
	assert.True(t, strings.HasSuffix(result.Files[0].Path, "high.txt"))
	assert.True(t, strings.HasSuffix(result.Files[1].Path, "mid.txt"))
	assert.True(t, strings.HasSuffix(result.Files[2].Path, "low.txt"))
}

func TestWalkRecordsFileSize(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.bin"), make([]byte, 1234), 0644))

	result := Walk(root, score.Constant{}, stats.NewCollector(), nil)
	require.Len(t, result.Files, 1)
	assert.Equal(t, int64(1234), result.Files[0].Size)
}
