// Package stats tracks scan progress with lock-free atomic counters. A
// single Collector is shared by the walk, the fingerprint workers, and the
// progress presenter; workers write, presenters read.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector accumulates counts for one scan.
type Collector struct {
	dirsFound    atomic.Int64
	filesFound   atomic.Int64
	filesHashed  atomic.Int64
	filesFailed  atomic.Int64
	walkErrors   atomic.Int64
	bytesHashed  atomic.Int64
	chunksHashed atomic.Int64
	startTime    time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) AddDirsFound(n int64)    { c.dirsFound.Add(n) }
func (c *Collector) AddFilesFound(n int64)   { c.filesFound.Add(n) }
func (c *Collector) AddFilesHashed(n int64)  { c.filesHashed.Add(n) }
func (c *Collector) AddFilesFailed(n int64)  { c.filesFailed.Add(n) }
func (c *Collector) AddWalkErrors(n int64)   { c.walkErrors.Add(n) }
func (c *Collector) AddBytesHashed(n int64)  { c.bytesHashed.Add(n) }
func (c *Collector) AddChunksHashed(n int64) { c.chunksHashed.Add(n) }

// Completed returns the number of files that reached a terminal state,
// hashed or failed. Monotonically increasing during a scan.
func (c *Collector) Completed() int64 {
	return c.filesHashed.Load() + c.filesFailed.Load()
}

// FilesFound returns the number of files discovered by the walk.
func (c *Collector) FilesFound() int64 {
	return c.filesFound.Load()
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	DirsFound    int64
	FilesFound   int64
	FilesHashed  int64
	FilesFailed  int64
	WalkErrors   int64
	BytesHashed  int64
	ChunksHashed int64
	Elapsed      time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		DirsFound:    c.dirsFound.Load(),
		FilesFound:   c.filesFound.Load(),
		FilesHashed:  c.filesHashed.Load(),
		FilesFailed:  c.filesFailed.Load(),
		WalkErrors:   c.walkErrors.Load(),
		BytesHashed:  c.bytesHashed.Load(),
		ChunksHashed: c.chunksHashed.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"dirs=%d files=%d hashed=%d failed=%d chunks=%d bytes=%d",
		s.DirsFound, s.FilesFound, s.FilesHashed, s.FilesFailed,
		s.ChunksHashed, s.BytesHashed,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
