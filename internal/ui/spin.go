package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/qdoyonnas/treediff/internal/event"
	"github.com/qdoyonnas/treediff/internal/stats"
)

// spinPresenter shows a spinner with a live hashed-file counter on a TTY.
type spinPresenter struct {
	spin  *spinner.Spinner
	stats *stats.Collector
}

func newSpinPresenter(w io.Writer, collector *stats.Collector) *spinPresenter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return &spinPresenter{spin: s, stats: collector}
}

func (p *spinPresenter) Run(events <-chan event.Event) error {
	p.spin.Suffix = " scanning..."
	p.spin.Start()
	defer p.spin.Stop()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == event.WalkComplete {
				p.updateSuffix()
			}
		case <-ticker.C:
			p.updateSuffix()
		}
	}
}

func (p *spinPresenter) updateSuffix() {
	snap := p.stats.Snapshot()
	p.spin.Suffix = fmt.Sprintf(" %d/%d files hashed (%s)",
		snap.FilesHashed+snap.FilesFailed, snap.FilesFound,
		stats.FormatBytes(snap.BytesHashed))
}

func (p *spinPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
