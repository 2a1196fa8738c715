package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/graft/internal/report"
	"github.com/bamsammich/graft/internal/stats"
)

func scenarioReport() *report.Report {
	r := report.New("/src", "/dst", false)
	r.AddCreatedDir("lib")
	r.AddCopiedFile("zeta.txt")
	r.AddCopiedFile("lib/a.txt")
	r.AddSkippedExisting("readme.txt")
	return r
}

func TestSummaryBlockSortedListings(t *testing.T) {
	s := summaryBlock(scenarioReport(), stats.Snapshot{}, 40)

	assert.Contains(t, s, "MERGE SUMMARY\n")
	assert.Contains(t, s, "Directories created: 1\n")
	assert.Contains(t, s, "Files copied:        2\n")
	assert.Contains(t, s, "Items skipped:       1\n")
	assert.Contains(t, s, "Copied files:\n  lib/a.txt\n  zeta.txt\n")
	assert.Contains(t, s, "Skipped (already existed):\n  readme.txt\n")
	assert.NotContains(t, s, "Errors")
	assert.Contains(t, s, strings.Repeat("=", 40))
	assert.True(t, strings.HasSuffix(s, closingNote+"\n"))
}

func TestSummaryBlockErrorsAndStats(t *testing.T) {
	r := scenarioReport()
	r.AddFailure("d/f", "file_copy", errors.New("boom"))

	snap := stats.Snapshot{
		Excluded:          4,
		BytesCopied:       2048,
		Elapsed:           2 * time.Second,
		FilesVerified:     2,
		FilesVerifyFailed: 1,
	}
	s := summaryBlock(r, snap, 40)

	assert.Contains(t, s, "Excluded:            4\n")
	assert.Contains(t, s, "Errors:              1\n")
	assert.Contains(t, s, "Data copied:         2.0 KiB in 2s (1.0 KiB/s)\n")
	assert.Contains(t, s, "Verified:            2 (1 mismatched)\n")
	assert.Contains(t, s, "Errors:\n  d/f (file_copy): boom\n")
}

func TestSummaryBlockDryRun(t *testing.T) {
	r := report.New("/src", "/dst", true)
	s := summaryBlock(r, stats.Snapshot{}, 10)

	assert.Contains(t, s, "MERGE SUMMARY (dry run)")
	assert.True(t, strings.HasSuffix(s, "Dry run: no changes were made.\n"))
	assert.NotContains(t, s, closingNote)
}

func TestSummaryBlockNilReport(t *testing.T) {
	assert.Empty(t, summaryBlock(nil, stats.Snapshot{}, 10))
	assert.Empty(t, completionSummary(nil, stats.Snapshot{}))
}

func TestCompletionSummary(t *testing.T) {
	s := completionSummary(scenarioReport(), stats.Snapshot{BytesCopied: 1024, Elapsed: 3 * time.Second})
	assert.Equal(t, "done ✓  created 1  copied 2  skipped 1  size 1.0 KiB  time 3s  errors 0\n", s)

	r := scenarioReport()
	r.AddFailure("x", "file_copy", errors.New("e"))
	r.DryRun = true
	s = completionSummary(r, stats.Snapshot{FilesVerified: 2})
	assert.Contains(t, s, "done ✗")
	assert.Contains(t, s, "verified 2")
	assert.Contains(t, s, "errors 1")
	assert.Contains(t, s, "(dry run)")
}

func TestQuietPresenterPrintsOnlyErrors(t *testing.T) {
	var errOut bytes.Buffer
	p := NewPresenter(Config{Quiet: true, ErrWriter: &errOut, Stats: stats.NewCollector()})

	events := make(chan Event, 4)
	events <- Event{Type: FileCopied, Path: "a"}
	events <- Event{Type: EntryFailed, Path: "b", Error: errors.New("symlink create failed: b: nope")}
	events <- Event{Type: VerifyFailed, Path: "c"}
	close(events)
	require.NoError(t, p.Run(events))

	assert.Equal(t, "ERROR symlink create failed: b: nope\nMISMATCH: c\n", errOut.String())
	assert.Contains(t, p.Summary(scenarioReport()), "copied 2")
}
