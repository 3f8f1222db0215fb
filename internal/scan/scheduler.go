package scan

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/qdoyonnas/treediff/internal/chunker"
	"github.com/qdoyonnas/treediff/internal/event"
	"github.com/qdoyonnas/treediff/internal/fingerprint"
	"github.com/qdoyonnas/treediff/internal/stats"
)

// SchedulerConfig controls the parallel fingerprinting pass.
type SchedulerConfig struct {
	Root    string
	Workers int
	Chunker chunker.Options
	Events  chan<- event.Event
	Stats   *stats.Collector
}

// Fingerprints dispatches the scored file list across a worker pool and
// collects the resulting file fingerprints. Files are handed out in list
// order, so higher-scored files start first. A failure on one path is
// logged, counted, and dropped from the output; it never aborts the run.
// Context cancellation does abort it: the returned error is non-nil and
// the set covers only the files finished before the cut, so callers must
// not treat it as a complete scan.
func Fingerprints(ctx context.Context, files []ScoredFile, cfg SchedulerConfig) (*fingerprint.Set, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	tasks := make(chan ScoredFile)
	results := make(chan fingerprint.Fingerprint, workers)

	// Single aggregating consumer; workers never share the set.
	set := fingerprint.NewSet()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for f := range results {
			set.Add(f)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	for id := range workers {
		g.Go(func() error {
			for file := range tasks {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if f, ok := fingerprintOne(file, cfg, id); ok {
					results <- f
				}
			}
			return nil
		})
	}

	// Feed tasks in priority order.
	g.Go(func() error {
		defer close(tasks)
		for _, file := range files {
			select {
			case tasks <- file:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	err := g.Wait()
	close(results)
	<-done
	return set, err
}

// fingerprintOne processes a single file, reporting failures through the
// collector and event stream rather than returning them.
func fingerprintOne(file ScoredFile, cfg SchedulerConfig, workerID int) (fingerprint.Fingerprint, bool) {
	fail := func(err error) (fingerprint.Fingerprint, bool) {
		slog.Warn("fingerprint failed", "path", file.Path, "error", err)
		cfg.Stats.AddFilesFailed(1)
		emit(cfg.Events, event.Event{
			Type:     event.FileFailed,
			Path:     file.Path,
			Error:    err,
			WorkerID: workerID,
		})
		return fingerprint.Fingerprint{}, false
	}

	rel, err := filepath.Rel(cfg.Root, file.Path)
	if err != nil {
		return fail(err)
	}

	digests, err := fingerprint.File(file.Path, cfg.Chunker)
	if err != nil {
		return fail(err)
	}

	cfg.Stats.AddFilesHashed(1)
	cfg.Stats.AddBytesHashed(file.Size)
	cfg.Stats.AddChunksHashed(int64(len(digests)))
	emit(cfg.Events, event.Event{
		Type:     event.FileHashed,
		Path:     rel,
		Size:     file.Size,
		Chunks:   len(digests),
		WorkerID: workerID,
	})

	return fingerprint.Fingerprint{
		RelativePath: rel,
		IsDir:        false,
		Chunks:       digests,
	}, true
}
