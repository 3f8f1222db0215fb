// Package fingerprint defines the per-path content records produced by a
// tree scan and the mmap-backed hasher that computes them.
package fingerprint

import (
	"slices"
)

// Fingerprint records one tree entry for change detection. RelativePath is
// the sole join key between scans. Chunks is nil for directories and
// non-nil (possibly empty) for files; digest order follows byte order in
// the file and is significant.
type Fingerprint struct {
	RelativePath string   `json:"relative_path"`
	IsDir        bool     `json:"is_dir"`
	Chunks       []string `json:"chunks"`
}

// EqualContent reports whether two fingerprints carry identical content:
// the same chunk digests in the same order, with nil (directory) and
// empty (zero-byte file) treated as distinct.
func (f Fingerprint) EqualContent(other Fingerprint) bool {
	if (f.Chunks == nil) != (other.Chunks == nil) {
		return false
	}
	return slices.Equal(f.Chunks, other.Chunks)
}

// Set is the complete collection of fingerprints from one scan, keyed by
// relative path.
type Set struct {
	byPath map[string]Fingerprint
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{byPath: make(map[string]Fingerprint)}
}

// FromRecords builds a Set from a flat record list, as read from a state
// file. A later record for the same path replaces an earlier one.
func FromRecords(records []Fingerprint) *Set {
	s := NewSet()
	for _, f := range records {
		s.Add(f)
	}
	return s
}

// Add inserts or replaces the fingerprint for its relative path.
func (s *Set) Add(f Fingerprint) {
	s.byPath[f.RelativePath] = f
}

// Get returns the fingerprint for path, if present.
func (s *Set) Get(path string) (Fingerprint, bool) {
	f, ok := s.byPath[path]
	return f, ok
}

// Len returns the number of fingerprints in the set.
func (s *Set) Len() int {
	return len(s.byPath)
}

// Paths returns every relative path in the set, sorted. Map iteration
// order is unspecified, so anything that needs reproducible output
// iterates via Paths.
func (s *Set) Paths() []string {
	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Records returns the set as a flat list in sorted path order, the form
// used for persistence.
func (s *Set) Records() []Fingerprint {
	records := make([]Fingerprint, 0, len(s.byPath))
	for _, p := range s.Paths() {
		records = append(records, s.byPath[p])
	}
	return records
}
