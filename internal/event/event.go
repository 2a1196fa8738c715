package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	MergeStarted Type = iota + 1
	MergeComplete
	Excluded
	DirCreated
	DirExists
	FileSkipped
	FileCopied
	SymlinkCopied
	EntryFailed
	VerifyStarted
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	MergeStarted:  "MergeStarted",
	MergeComplete: "MergeComplete",
	Excluded:      "Excluded",
	DirCreated:    "DirCreated",
	DirExists:     "DirExists",
	FileSkipped:   "FileSkipped",
	FileCopied:    "FileCopied",
	SymlinkCopied: "SymlinkCopied",
	EntryFailed:   "EntryFailed",
	VerifyStarted: "VerifyStarted",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Timestamp  time.Time
	Error      error
	Path       string // relative path, slash separated
	LinkTarget string // SymlinkCopied only
	Size       int64  // bytes copied (FileCopied)
	Type       Type
}
