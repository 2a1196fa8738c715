package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/bamsammich/graft/internal/report"
	"github.com/bamsammich/graft/internal/stats"
)

// plainPresenter writes one tagged line per visited entry to w and errors
// to errW.
type plainPresenter struct {
	w      io.Writer
	errW   io.Writer
	stats  *stats.Collector
	src    string
	dst    string
	width  int
	dryRun bool
	color  bool
}

func (p *plainPresenter) Run(events <-chan Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case MergeStarted:
		p.banner()
	case Excluded:
		p.line(tagExcluded, "EXCLUDED", ev.Path)
	case DirCreated:
		p.line(tagCreated, "CREATED DIR", ev.Path)
	case DirExists:
		p.line(tagExists, "DIR EXISTS", ev.Path+" (checking contents...)")
	case FileSkipped:
		p.line(tagSkipped, "SKIPPED (exists)", ev.Path)
	case FileCopied:
		p.line(tagCopied, "COPIED FILE", ev.Path)
	case SymlinkCopied:
		p.line(tagCopied, "COPIED SYMLINK", ev.Path+" -> "+ev.LinkTarget)
	case EntryFailed:
		fmt.Fprintln(p.errW, p.paint(tagError, "ERROR")+" "+errText(ev))
	case VerifyStarted:
		fmt.Fprintln(p.w, "verifying copied files...")
	case VerifyFailed:
		fmt.Fprintln(p.errW, p.paint(tagError, "MISMATCH")+": "+errText(ev))
	case VerifyOK, MergeComplete:
		// silent in plain mode
	}
}

func (p *plainPresenter) banner() {
	rule := strings.Repeat("=", p.width)
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w, p.paint(tagHeader, "graft: merge without overwrite"))
	fmt.Fprintf(p.w, "  source:      %s\n", p.src)
	fmt.Fprintf(p.w, "  destination: %s\n", p.dst)
	if p.dryRun {
		fmt.Fprintln(p.w, "  dry run: nothing will be written")
	}
	fmt.Fprintln(p.w, rule)
}

func (p *plainPresenter) line(tag tagKind, label, text string) {
	fmt.Fprintf(p.w, "%s: %s\n", p.paint(tag, label), text)
}

func (p *plainPresenter) paint(tag tagKind, s string) string {
	if !p.color {
		return s
	}
	return styles[tag].Render(s)
}

func (p *plainPresenter) Summary(r *report.Report) string {
	return summaryBlock(r, snapshotOf(p.stats), p.width)
}

func errText(ev Event) string {
	if ev.Error != nil {
		return ev.Error.Error()
	}
	return ev.Path
}

func snapshotOf(c *stats.Collector) stats.Snapshot {
	if c == nil {
		return stats.Snapshot{}
	}
	return c.Snapshot()
}
