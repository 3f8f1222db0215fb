// Package scan produces a complete fingerprint set for a directory tree:
// a sequential walk classifies entries and orders files by priority score,
// then a data-parallel worker pool fingerprints them.
package scan

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/qdoyonnas/treediff/internal/chunker"
	"github.com/qdoyonnas/treediff/internal/event"
	"github.com/qdoyonnas/treediff/internal/fingerprint"
	"github.com/qdoyonnas/treediff/internal/score"
	"github.com/qdoyonnas/treediff/internal/stats"
)

// Config describes a scan.
type Config struct {
	Root    string
	Workers int
	Chunker chunker.Options
	Scorer  score.Scorer
	// Events receives progress events on a best-effort basis: sends
	// never block a worker, so events are dropped when the channel is
	// full. Consumers needing exact counts read Stats instead.
	Events chan<- event.Event
	Stats  *stats.Collector
}

// Run scans cfg.Root and returns the fingerprint set for the whole tree.
// Per-entry failures (walk access, relative-path derivation, open, lock,
// mmap) are logged and excluded from the set; only a missing or unusable
// root, or a cancelled context, fails the scan itself. A set from a failed
// Run is incomplete and must not be persisted or diffed.
func Run(ctx context.Context, cfg Config) (*fingerprint.Set, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("scan root %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", cfg.Root)
	}
	if err := cfg.Chunker.Validate(); err != nil {
		return nil, err
	}

	if cfg.Scorer == nil {
		cfg.Scorer = score.Constant{}
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	emit(cfg.Events, event.Event{Type: event.ScanStarted, Path: cfg.Root})

	walk := Walk(cfg.Root, cfg.Scorer, cfg.Stats, cfg.Events)
	emit(cfg.Events, event.Event{Type: event.WalkComplete, Total: int64(len(walk.Files))})

	set, err := Fingerprints(ctx, walk.Files, SchedulerConfig{
		Root:    cfg.Root,
		Workers: cfg.Workers,
		Chunker: cfg.Chunker,
		Events:  cfg.Events,
		Stats:   cfg.Stats,
	})
	if err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	// Directories were materialized during the walk; fold them in with the
	// file fingerprints to complete the set.
	for _, d := range walk.Dirs {
		set.Add(d)
	}

	emit(cfg.Events, event.Event{Type: event.ScanComplete})
	return set, nil
}

// emit sends an event without blocking a worker when the consumer lags.
// The event is dropped if the channel is full; the stats collector, not
// the event stream, is the authoritative record of what happened.
func emit(ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
