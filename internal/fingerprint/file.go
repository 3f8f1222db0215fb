package fingerprint

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zeebo/blake3"
	"golang.org/x/sys/unix"

	"github.com/qdoyonnas/treediff/internal/chunker"
)

// File chunks and hashes the file at path, returning its ordered chunk
// digest sequence as lowercase hex. The file is read under a shared
// advisory lock so a cooperating writer holding an exclusive lock is never
// observed mid-overwrite, and is memory-mapped so chunk bytes are never
// copied. Lock and mapping are released on every exit path.
func File(path string, opts chunker.Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_SH); err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	defer func() { _ = unix.Flock(fd, unix.LOCK_UN) }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	// A zero-byte file has an empty digest sequence, not an absent one.
	// mmap rejects zero-length mappings, so skip it entirely.
	digests := []string{}
	if info.Size() == 0 {
		return digests, nil
	}

	data, err := unix.Mmap(fd, 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	defer func() { _ = unix.Munmap(data) }()

	h := blake3.New()
	for span := range chunker.Spans(data, opts) {
		h.Reset()
		_, _ = h.Write(data[span.Offset : span.Offset+span.Length])
		digests = append(digests, hex.EncodeToString(h.Sum(nil)))
	}
	return digests, nil
}
