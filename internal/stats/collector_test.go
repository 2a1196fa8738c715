package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	const goroutines = 100
	const opsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range opsPerGoroutine {
				c.AddDirsCreated(1)
				c.AddDirsExisting(1)
				c.AddFilesCopied(1)
				c.AddSymlinksCopied(1)
				c.AddFilesSkipped(1)
				c.AddExcluded(1)
				c.AddFailed(1)
				c.AddBytesCopied(256)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	expected := int64(goroutines * opsPerGoroutine)
	assert.Equal(t, expected, s.DirsCreated)
	assert.Equal(t, expected, s.DirsExisting)
	assert.Equal(t, expected, s.FilesCopied)
	assert.Equal(t, expected, s.SymlinksCopied)
	assert.Equal(t, expected, s.FilesSkipped)
	assert.Equal(t, expected, s.Excluded)
	assert.Equal(t, expected, s.Failed)
	assert.Equal(t, expected*256, s.BytesCopied)
}

func TestSnapshotString(t *testing.T) {
	s := Snapshot{
		DirsCreated:    3,
		DirsExisting:   2,
		FilesCopied:    8,
		SymlinksCopied: 1,
		FilesSkipped:   4,
		Excluded:       5,
		Failed:         1,
		BytesCopied:    4096,
	}
	expected := "dirs=3 existing=2 copied=8 symlinks=1 skipped=4 excluded=5 failed=1 bytes=4096"
	assert.Equal(t, expected, s.String())
}

func TestVerifyCounters(t *testing.T) {
	c := NewCollector()
	c.AddFilesVerified(3)
	c.AddFilesVerifyFailed(1)

	s := c.Snapshot()
	assert.Equal(t, int64(3), s.FilesVerified)
	assert.Equal(t, int64(1), s.FilesVerifyFailed)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatBytes(tt.input))
		})
	}
}

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.startTime.IsZero())
	assert.InDelta(t, 0, c.Elapsed().Seconds(), 1)
}

func TestSnapshotIncludesElapsed(t *testing.T) {
	c := NewCollector()
	time.Sleep(10 * time.Millisecond)
	s := c.Snapshot()
	assert.Greater(t, s.Elapsed, time.Duration(0))
}

func TestSnapshotSpeed(t *testing.T) {
	s := Snapshot{BytesCopied: 2000, Elapsed: 2 * time.Second}
	assert.InDelta(t, 1000.0, s.Speed(), 0.01)
	assert.Equal(t, 0.0, Snapshot{BytesCopied: 10}.Speed())
}
