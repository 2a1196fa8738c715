package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/graft/internal/event"
	"github.com/bamsammich/graft/internal/filter"
	"github.com/bamsammich/graft/internal/report"
	"github.com/bamsammich/graft/internal/stats"
)

// merger owns one traversal and the report it builds.
type merger struct {
	src     string
	dst     string
	exclude *filter.Set
	dryRun  bool
	limiter *rate.Limiter
	events  chan<- event.Event
	stats   stats.Writer
	log     *slog.Logger
	report  *report.Report
}

// workItem is a pending source entry, identified by its slash-separated
// path relative to the source root.
type workItem struct {
	rel   string
	entry fs.DirEntry
}

// run walks the source depth-first with an explicit stack. Children are
// pushed in reverse so they pop in lexical order.
func (m *merger) run(ctx context.Context) error {
	var stack []workItem
	stack = m.pushChildren(stack, "", m.src)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if descend := m.visit(ctx, item); descend {
			stack = m.pushChildren(stack, item.rel, m.srcPath(item.rel))
		}
	}
	return nil
}

func (m *merger) pushChildren(stack []workItem, rel, dir string) []workItem {
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.fail(ErrDirectoryRead, rel, err)
		return stack
	}
	// os.ReadDir sorts by name.
	for _, e := range slices.Backward(entries) {
		stack = append(stack, workItem{rel: path.Join(rel, e.Name()), entry: e})
	}
	return stack
}

// visit handles one entry and reports whether its children should be
// visited.
func (m *merger) visit(ctx context.Context, item workItem) bool {
	info, err := item.entry.Info()
	if err != nil {
		// Vanished between listing and visiting.
		m.log.Debug("source entry unreadable", "rel", item.rel, "error", err)
		return false
	}

	isDir := info.IsDir()
	if m.exclude.Excluded(item.rel, isDir, info.Size()) {
		m.stats.AddExcluded(1)
		m.log.Debug("excluded", "rel", item.rel)
		emit(ctx, m.events, event.Event{Type: event.Excluded, Path: item.rel})
		return false
	}

	switch mode := info.Mode(); {
	case mode.IsDir():
		return m.visitDir(ctx, item.rel)
	case mode.IsRegular():
		m.visitFile(ctx, item.rel, info)
	case mode&fs.ModeSymlink != 0:
		m.visitSymlink(ctx, item.rel)
	default:
		m.log.Debug("ignoring special file", "rel", item.rel, "mode", mode.String())
	}
	return false
}

func (m *merger) visitDir(ctx context.Context, rel string) bool {
	dstPath := m.dstPath(rel)
	if lexists(dstPath) {
		m.stats.AddDirsExisting(1)
		m.log.Debug("directory exists", "rel", rel, "dst", dstPath)
		emit(ctx, m.events, event.Event{Type: event.DirExists, Path: rel})
		return true
	}

	if !m.dryRun {
		if err := mkdirLeaf(dstPath); err != nil {
			if errors.Is(err, errDestinationTaken) {
				// Appeared since the check; treat like any existing entry.
				m.stats.AddDirsExisting(1)
				emit(ctx, m.events, event.Event{Type: event.DirExists, Path: rel})
				return true
			}
			m.fail(ErrDirectoryCreate, rel, err)
			return false
		}
	}

	m.report.AddCreatedDir(rel)
	m.stats.AddDirsCreated(1)
	m.log.Debug("created directory", "rel", rel, "dst", dstPath)
	emit(ctx, m.events, event.Event{Type: event.DirCreated, Path: rel})
	return true
}

func (m *merger) visitFile(ctx context.Context, rel string, info fs.FileInfo) {
	dstPath := m.dstPath(rel)
	if lexists(dstPath) {
		m.skip(ctx, rel)
		return
	}

	var n int64
	if !m.dryRun {
		var err error
		n, err = m.copyFile(ctx, m.srcPath(rel), dstPath, info)
		if errors.Is(err, errDestinationTaken) {
			m.skip(ctx, rel)
			return
		}
		if err != nil {
			m.fail(ErrFileCopy, rel, err)
			return
		}
	}

	m.report.AddCopiedFile(rel)
	m.stats.AddFilesCopied(1)
	m.stats.AddBytesCopied(n)
	m.log.Debug("copied file", "rel", rel, "dst", dstPath, "bytes", n)
	emit(ctx, m.events, event.Event{Type: event.FileCopied, Path: rel, Size: info.Size()})
}

func (m *merger) visitSymlink(ctx context.Context, rel string) {
	dstPath := m.dstPath(rel)
	if lexists(dstPath) {
		m.skip(ctx, rel)
		return
	}

	target, err := os.Readlink(m.srcPath(rel))
	if err != nil {
		m.fail(ErrSymlinkCreate, rel, err)
		return
	}

	if !m.dryRun {
		err := createSymlink(target, dstPath)
		if errors.Is(err, errDestinationTaken) {
			m.skip(ctx, rel)
			return
		}
		if err != nil {
			m.fail(ErrSymlinkCreate, rel, err)
			return
		}
	}

	m.report.AddCopiedFile(rel)
	m.stats.AddSymlinksCopied(1)
	m.log.Debug("copied symlink", "rel", rel, "dst", dstPath, "target", target)
	emit(ctx, m.events, event.Event{Type: event.SymlinkCopied, Path: rel, LinkTarget: target})
}

func (m *merger) skip(ctx context.Context, rel string) {
	m.report.AddSkippedExisting(rel)
	m.stats.AddFilesSkipped(1)
	m.log.Debug("skipped existing", "rel", rel)
	emit(ctx, m.events, event.Event{Type: event.FileSkipped, Path: rel})
}

func (m *merger) fail(op error, rel string, err error) {
	entryErr := &EntryError{Op: op, Path: rel, Err: err}
	m.report.AddFailure(rel, entryErr.OpName(), err)
	m.stats.AddFailed(1)
	m.log.Debug("entry failed", "rel", rel, "op", entryErr.OpName(), "error", err)
	// Failures are delivered even when the merge is being cancelled.
	emit(context.Background(), m.events, event.Event{Type: event.EntryFailed, Path: rel, Error: entryErr})
}

func (m *merger) srcPath(rel string) string {
	return filepath.Join(m.src, filepath.FromSlash(rel))
}

func (m *merger) dstPath(rel string) string {
	return filepath.Join(m.dst, filepath.FromSlash(rel))
}

// lexists reports whether anything, including a dangling symlink, occupies
// path. Any error other than a clean lookup counts as absent; the writes
// that follow refuse to replace an existing entry regardless.
func lexists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// mkdirLeaf creates dir, creating missing ancestors, and fails with
// errDestinationTaken only if dir itself already exists.
func mkdirLeaf(dir string) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return claimErr(os.Mkdir(dir, 0o755))
}

// emit delivers e, blocking until the consumer takes it or ctx ends.
func emit(ctx context.Context, ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	case <-ctx.Done():
	}
}
