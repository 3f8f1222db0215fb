package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/qdoyonnas/treediff/internal/event"
	"github.com/qdoyonnas/treediff/internal/stats"
)

// plainPresenter writes one line per hashed file when verbose, and
// periodic progress to stderr otherwise. Suited to pipes and log capture.
type plainPresenter struct {
	w          io.Writer
	errW       io.Writer
	stats      *stats.Collector
	verbose    bool
	noProgress bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			if !p.noProgress {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	if !p.verbose {
		return
	}
	switch ev.Type {
	case event.WalkComplete:
		fmt.Fprintf(p.w, "walk complete: %d files to hash\n", ev.Total)
	case event.FileHashed:
		fmt.Fprintf(p.w, "%s  %s  %d chunks\n", ev.Path, stats.FormatBytes(ev.Size), ev.Chunks)
	case event.FileFailed:
		fmt.Fprintf(p.w, "%s  failed: %v\n", ev.Path, ev.Error)
	case event.WalkError:
		fmt.Fprintf(p.w, "%s  unreachable: %v\n", ev.Path, ev.Error)
	}
}

func (p *plainPresenter) printProgress() {
	completed := p.stats.Completed()
	total := p.stats.FilesFound()
	fmt.Fprintf(p.errW, "progress: %d/%d files hashed (%s)\n",
		completed, total, stats.FormatBytes(p.stats.Snapshot().BytesHashed))
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

// CompletionSummary renders the end-of-scan line shown on stderr.
func CompletionSummary(s stats.Snapshot) string {
	line := fmt.Sprintf("hashed %d files (%s, %d chunks) in %s",
		s.FilesHashed, stats.FormatBytes(s.BytesHashed), s.ChunksHashed,
		s.Elapsed.Truncate(time.Millisecond))
	if s.FilesFailed > 0 || s.WalkErrors > 0 {
		line += fmt.Sprintf(", %d failed, %d unreachable", s.FilesFailed, s.WalkErrors)
	}
	return line
}
