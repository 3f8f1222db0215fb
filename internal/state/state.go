// Package state persists fingerprint sets between runs as a JSON array of
// records. State written with a .zst path is zstd-compressed; reads detect
// compression from the file's leading magic, not its name.
package state

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/qdoyonnas/treediff/internal/fingerprint"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Exists reports whether a state file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads a fingerprint set from path. A state file that exists but
// cannot be opened or parsed is an error carrying the path and cause;
// callers treat it as fatal rather than silently rescanning from nothing.
func Load(path string) (*fingerprint.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open state %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, _ := br.Peek(len(zstdMagic)); bytes.Equal(magic, zstdMagic) {
		zr, zErr := zstd.NewReader(br)
		if zErr != nil {
			return nil, fmt.Errorf("decompress state %s: %w", path, zErr)
		}
		defer zr.Close()
		r = zr
	}

	var records []fingerprint.Fingerprint
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	return fingerprint.FromRecords(records), nil
}

// Save writes the set to path atomically: records go to a temp file in the
// same directory which is renamed into place, so an interrupted run never
// leaves a partial state file. Paths ending in .zst are compressed.
func Save(path string, set *fingerprint.Set) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()[:8]))

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create state temp %s: %w", tmpPath, err)
	}
	defer func() { _ = os.Remove(tmpPath) }() // no-op if rename succeeded

	if err := writeRecords(f, set.Records(), strings.HasSuffix(path, ".zst")); err != nil {
		f.Close()
		return fmt.Errorf("write state %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close state temp %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}
	return nil
}

func writeRecords(w io.Writer, records []fingerprint.Fingerprint, compress bool) error {
	if compress {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if err := json.NewEncoder(zw).Encode(records); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
	return json.NewEncoder(w).Encode(records)
}
