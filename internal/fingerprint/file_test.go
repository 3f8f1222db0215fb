package fingerprint

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdoyonnas/treediff/internal/chunker"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.bin")

	buf := make([]byte, 200000)
	r := rand.New(rand.NewSource(1))
	_, err := r.Read(buf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, buf, 0644))

	digests, err := File(path, chunker.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, digests)
	for _, d := range digests {
		assert.Regexp(t, "^[0-9a-f]{64}$", d) // BLAKE3-256, lowercase hex
	}

	// Same bytes at a different path hash identically.
	path2 := filepath.Join(dir, "copy.bin")
	require.NoError(t, os.WriteFile(path2, buf, 0644))
	digests2, err := File(path2, chunker.Options{})
	require.NoError(t, err)
	assert.Equal(t, digests, digests2)
}

func TestFileBitFlip(t *testing.T) {
	dir := t.TempDir()
	buf := make([]byte, 100000)
	r := rand.New(rand.NewSource(2))
	_, err := r.Read(buf)
	require.NoError(t, err)

	path := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(path, buf, 0644))
	before, err := File(path, chunker.Options{})
	require.NoError(t, err)

	buf[50000] ^= 0x01
	require.NoError(t, os.WriteFile(path, buf, 0644))
	after, err := File(path, chunker.Options{})
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	digests, err := File(path, chunker.Options{})
	require.NoError(t, err)
	require.NotNil(t, digests)
	assert.Empty(t, digests)
}

func TestFileNotExist(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing"), chunker.Options{})
	assert.Error(t, err)
}
