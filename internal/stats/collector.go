package stats

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Writer is the write side of a Collector, held by the merge engine.
type Writer interface {
	AddDirsCreated(n int64)
	AddDirsExisting(n int64)
	AddFilesCopied(n int64)
	AddSymlinksCopied(n int64)
	AddFilesSkipped(n int64)
	AddExcluded(n int64)
	AddFailed(n int64)
	AddBytesCopied(n int64)
	AddFilesVerified(n int64)
	AddFilesVerifyFailed(n int64)
}

// Collector tracks merge statistics using lock-free atomic counters so a
// presenter may read while the engine writes.
type Collector struct {
	dirsCreated       atomic.Int64
	dirsExisting      atomic.Int64
	filesCopied       atomic.Int64
	symlinksCopied    atomic.Int64
	filesSkipped      atomic.Int64
	excluded          atomic.Int64
	failed            atomic.Int64
	bytesCopied       atomic.Int64
	filesVerified     atomic.Int64
	filesVerifyFailed atomic.Int64
	startTime         time.Time
}

var _ Writer = (*Collector)(nil)

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	DirsCreated       int64
	DirsExisting      int64
	FilesCopied       int64
	SymlinksCopied    int64
	FilesSkipped      int64
	Excluded          int64
	Failed            int64
	BytesCopied       int64
	FilesVerified     int64
	FilesVerifyFailed int64
	Elapsed           time.Duration
}

func (c *Collector) AddDirsCreated(n int64)       { c.dirsCreated.Add(n) }
func (c *Collector) AddDirsExisting(n int64)      { c.dirsExisting.Add(n) }
func (c *Collector) AddFilesCopied(n int64)       { c.filesCopied.Add(n) }
func (c *Collector) AddSymlinksCopied(n int64)    { c.symlinksCopied.Add(n) }
func (c *Collector) AddFilesSkipped(n int64)      { c.filesSkipped.Add(n) }
func (c *Collector) AddExcluded(n int64)          { c.excluded.Add(n) }
func (c *Collector) AddFailed(n int64)            { c.failed.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.bytesCopied.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.filesVerified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.filesVerifyFailed.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		DirsCreated:       c.dirsCreated.Load(),
		DirsExisting:      c.dirsExisting.Load(),
		FilesCopied:       c.filesCopied.Load(),
		SymlinksCopied:    c.symlinksCopied.Load(),
		FilesSkipped:      c.filesSkipped.Load(),
		Excluded:          c.excluded.Load(),
		Failed:            c.failed.Load(),
		BytesCopied:       c.bytesCopied.Load(),
		FilesVerified:     c.filesVerified.Load(),
		FilesVerifyFailed: c.filesVerifyFailed.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Speed returns the average copy rate in bytes per second.
func (s Snapshot) Speed() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.BytesCopied) / s.Elapsed.Seconds()
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"dirs=%d existing=%d copied=%d symlinks=%d skipped=%d excluded=%d failed=%d bytes=%d",
		s.DirsCreated, s.DirsExisting, s.FilesCopied, s.SymlinksCopied,
		s.FilesSkipped, s.Excluded, s.Failed, s.BytesCopied,
	)
}

// FormatBytes returns a human-readable byte count in binary units.
func FormatBytes(b int64) string {
	if b < 0 {
		b = 0
	}
	return humanize.IBytes(uint64(b))
}
