package ui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/graft/internal/report"
	"github.com/bamsammich/graft/internal/stats"
)

const closingNote = "No existing files were overwritten."

// summaryBlock renders counts, then sorted listings of every category.
func summaryBlock(r *report.Report, snap stats.Snapshot, width int) string {
	if r == nil {
		return ""
	}
	s := r.Sorted()
	c := s.Counts()
	rule := strings.Repeat("=", width)

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	if s.DryRun {
		b.WriteString("MERGE SUMMARY (dry run)\n")
	} else {
		b.WriteString("MERGE SUMMARY\n")
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Directories created: %s\n", FormatCount(int64(c.CreatedDirs)))
	fmt.Fprintf(&b, "Files copied:        %s\n", FormatCount(int64(c.CopiedFiles)))
	fmt.Fprintf(&b, "Items skipped:       %s\n", FormatCount(int64(c.SkippedExisting)))
	if snap.Excluded > 0 {
		fmt.Fprintf(&b, "Excluded:            %s\n", FormatCount(snap.Excluded))
	}
	if c.Errors > 0 {
		fmt.Fprintf(&b, "Errors:              %s\n", FormatCount(int64(c.Errors)))
	}
	if snap.BytesCopied > 0 {
		fmt.Fprintf(&b, "Data copied:         %s in %s (%s)\n",
			FormatBytes(snap.BytesCopied), FormatDuration(snap.Elapsed), FormatRate(snap.Speed()))
	}
	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		fmt.Fprintf(&b, "Verified:            %s (%s mismatched)\n",
			FormatCount(snap.FilesVerified), FormatCount(snap.FilesVerifyFailed))
	}

	listing(&b, "Created directories", s.CreatedDirs)
	listing(&b, "Copied files", s.CopiedFiles)
	listing(&b, "Skipped (already existed)", s.SkippedExisting)
	if len(s.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, f := range s.Errors {
			fmt.Fprintf(&b, "  %s (%s): %s\n", f.Path, f.Op, f.Error)
		}
	}

	b.WriteString("\n")
	if s.DryRun {
		b.WriteString("Dry run: no changes were made.\n")
	} else {
		b.WriteString(closingNote + "\n")
	}
	return b.String()
}

func listing(b *strings.Builder, title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, p := range paths {
		b.WriteString("  " + p + "\n")
	}
}

// completionSummary builds a one-line summary.
// Format: done ✓  created 3  copied 48,917  skipped 12  size 2.1 GiB  time 3m 17s  errors 0
func completionSummary(r *report.Report, snap stats.Snapshot) string {
	if r == nil {
		return ""
	}
	c := r.Counts()

	icon := "\u2713"
	if c.Errors > 0 || snap.FilesVerifyFailed > 0 {
		icon = "\u2717"
	}

	base := fmt.Sprintf("done %s  created %s  copied %s  skipped %s  size %s  time %s",
		icon,
		FormatCount(int64(c.CreatedDirs)),
		FormatCount(int64(c.CopiedFiles)),
		FormatCount(int64(c.SkippedExisting)),
		FormatBytes(snap.BytesCopied),
		FormatDuration(snap.Elapsed),
	)
	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		base += "  verified " + FormatCount(snap.FilesVerified)
	}
	base += fmt.Sprintf("  errors %d", int64(c.Errors)+snap.FilesVerifyFailed)
	if r.DryRun {
		base += "  (dry run)"
	}
	return base + "\n"
}
