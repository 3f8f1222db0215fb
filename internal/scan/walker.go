package scan

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/qdoyonnas/treediff/internal/event"
	"github.com/qdoyonnas/treediff/internal/fingerprint"
	"github.com/qdoyonnas/treediff/internal/score"
	"github.com/qdoyonnas/treediff/internal/stats"
)

// ScoredFile is one file discovered by the walk, carrying its priority
// score and size.
type ScoredFile struct {
	Path  string // absolute path
	Score float64
	Size  int64
}

// WalkResult is the classified output of one tree walk.
type WalkResult struct {
	// Files to fingerprint, sorted by score descending. Ties keep
	// discovery order; callers must not depend on tie order.
	Files []ScoredFile
	// Dirs are materialized directly as fingerprints with nil chunks.
	Dirs []fingerprint.Fingerprint
}

// Walk enumerates root in a single sequential pass, classifying every
// entry. Symlink handling is inherited from filepath.WalkDir, which does
// not follow them. Unreachable entries are logged and skipped; the walk
// itself never fails.
func Walk(root string, scorer score.Scorer, collector *stats.Collector, events chan<- event.Event) WalkResult {
	var result WalkResult

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("failed to access path", "path", path, "error", err)
			collector.AddWalkErrors(1)
			emit(events, event.Event{Type: event.WalkError, Path: path, Error: err})
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			slog.Warn("failed to derive relative path", "path", path, "error", relErr)
			collector.AddWalkErrors(1)
			emit(events, event.Event{Type: event.WalkError, Path: path, Error: relErr})
			return nil
		}

		switch {
		case d.IsDir():
			collector.AddDirsFound(1)
			result.Dirs = append(result.Dirs, fingerprint.Fingerprint{
				RelativePath: rel,
				IsDir:        true,
			})
		case d.Type().IsRegular():
			collector.AddFilesFound(1)
			var size int64
			if info, infoErr := d.Info(); infoErr == nil {
				size = info.Size()
			}
			result.Files = append(result.Files, ScoredFile{
				Path:  path,
				Score: scorer.Score(path, root),
				Size:  size,
			})
		}
		return nil
	})

	// Stable sort keeps discovery order between equal scores.
	sort.SliceStable(result.Files, func(i, j int) bool {
		return result.Files[i].Score > result.Files[j].Score
	})

	return result
}
