package engine

import (
	"errors"
	"fmt"
	"io/fs"
)

// Fatal errors stop a merge before any destination I/O.
var (
	ErrInvalidSource      = errors.New("invalid source")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrLocked             = errors.New("destination is locked by another merge")
)

// Per-entry error categories. A merge records these and keeps going.
var (
	ErrDirectoryCreate = errors.New("directory create failed")
	ErrDirectoryRead   = errors.New("directory read failed")
	ErrFileCopy        = errors.New("file copy failed")
	ErrSymlinkCreate   = errors.New("symlink create failed")
)

// errDestinationTaken marks the final create or publish of an entry losing
// to something that appeared at its exact path. Only this counts as a skip;
// an existing ancestor in the way is a failure.
var errDestinationTaken = errors.New("destination path already taken")

// claimErr wraps an EEXIST from the call that creates the entry itself.
func claimErr(err error) error {
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %w", errDestinationTaken, err)
	}
	return err
}

var opNames = map[error]string{
	ErrDirectoryCreate: "directory_create",
	ErrDirectoryRead:   "directory_read",
	ErrFileCopy:        "file_copy",
	ErrSymlinkCreate:   "symlink_create",
}

// EntryError is a failure on one entry of the tree. errors.Is matches both
// the category (Op) and the underlying cause.
type EntryError struct {
	Op   error
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *EntryError) Unwrap() []error {
	return []error{e.Op, e.Err}
}

// OpName returns the stable identifier used in exported reports.
func (e *EntryError) OpName() string {
	if name, ok := opNames[e.Op]; ok {
		return name
	}
	return "unknown"
}
