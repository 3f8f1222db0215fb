// Package event defines the progress events emitted during a scan.
package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	WalkError
	FileHashed
	FileFailed
	WalkComplete
	ScanComplete
)

var typeNames = [...]string{
	ScanStarted:  "ScanStarted",
	WalkError:    "WalkError",
	FileHashed:   "FileHashed",
	FileFailed:   "FileFailed",
	WalkComplete: "WalkComplete",
	ScanComplete: "ScanComplete",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from a scan.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // relative path
	Size      int64  // bytes hashed (FileHashed)
	Chunks    int    // digest count (FileHashed)
	Total     int64  // total files to hash (WalkComplete)
	Error     error
	WorkerID  int
}
