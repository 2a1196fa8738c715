package ui

import "github.com/bamsammich/graft/internal/event"

// Event is re-exported so presenters read like the engine's vocabulary.
type Event = event.Event

const (
	MergeStarted  = event.MergeStarted
	MergeComplete = event.MergeComplete
	Excluded      = event.Excluded
	DirCreated    = event.DirCreated
	DirExists     = event.DirExists
	FileSkipped   = event.FileSkipped
	FileCopied    = event.FileCopied
	SymlinkCopied = event.SymlinkCopied
	EntryFailed   = event.EntryFailed
	VerifyStarted = event.VerifyStarted
	VerifyOK      = event.VerifyOK
	VerifyFailed  = event.VerifyFailed
)
