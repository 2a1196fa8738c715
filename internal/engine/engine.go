package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bamsammich/graft/internal/event"
	"github.com/bamsammich/graft/internal/filter"
	"github.com/bamsammich/graft/internal/report"
	"github.com/bamsammich/graft/internal/stats"
)

// Config describes a merge operation.
type Config struct {
	Src     string
	Dst     string
	Exclude *filter.Set
	DryRun  bool
	Verify  bool
	Lock    bool
	BWLimit int64 // bytes per second, 0 for unlimited
	Events  chan<- event.Event
	Stats   *stats.Collector
	Logger  *slog.Logger
}

// Result is the outcome of a merge.
type Result struct {
	Report *report.Report
	Stats  stats.Snapshot
	Verify *VerifyResult
	Err    error
}

// Run merges cfg.Src into cfg.Dst, blocking until complete. Per-entry
// failures are collected in the report; Result.Err is set only for fatal
// errors (invalid roots, lock held, cancellation).
func Run(ctx context.Context, cfg Config) Result {
	src, dst, err := validateRoots(cfg.Src, cfg.Dst)
	if err != nil {
		return Result{Err: err}
	}

	if cfg.Lock && !cfg.DryRun {
		lock, err := AcquireLock(dst)
		if err != nil {
			return Result{Err: err}
		}
		defer lock.Release() //nolint:errcheck // process exit releases it regardless
	}

	collector := cfg.Stats
	if collector == nil {
		collector = stats.NewCollector()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &merger{
		src:     src,
		dst:     dst,
		exclude: cfg.Exclude,
		dryRun:  cfg.DryRun,
		events:  cfg.Events,
		stats:   collector,
		log:     logger,
		report:  report.New(src, dst, cfg.DryRun),
	}
	if cfg.BWLimit > 0 {
		m.limiter = NewBWLimiter(cfg.BWLimit)
	}

	logger.Info("merge started", "src", src, "dst", dst, "dry_run", cfg.DryRun)
	emit(ctx, cfg.Events, event.Event{Type: event.MergeStarted, Path: src})
	runErr := m.run(ctx)
	emit(ctx, cfg.Events, event.Event{Type: event.MergeComplete})

	res := Result{Report: m.report}
	if runErr != nil {
		res.Err = fmt.Errorf("merge interrupted: %w", runErr)
	} else if cfg.Verify && !cfg.DryRun {
		vr := Verify(ctx, VerifyConfig{
			SrcRoot: src,
			DstRoot: dst,
			Paths:   m.report.CopiedFiles,
			Events:  cfg.Events,
			Stats:   collector,
		})
		res.Verify = &vr
	}

	counts := m.report.Counts()
	logger.Info("merge finished",
		"created_dirs", counts.CreatedDirs,
		"copied_files", counts.CopiedFiles,
		"skipped_existing", counts.SkippedExisting,
		"errors", counts.Errors,
	)
	res.Stats = collector.Snapshot()
	return res
}

// validateRoots checks the merge preconditions and returns cleaned absolute
// roots. Nothing is created.
func validateRoots(src, dst string) (string, string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if !srcInfo.IsDir() {
		return "", "", fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, src)
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidDestination, err)
	}
	if !dstInfo.IsDir() {
		return "", "", fmt.Errorf("%w: %s is not a directory", ErrInvalidDestination, dst)
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidDestination, err)
	}

	// A destination inside the source would be walked as it grows.
	realSrc, realDst := resolvePath(absSrc), resolvePath(absDst)
	if realDst != realSrc && isWithin(realDst, realSrc) {
		return "", "", fmt.Errorf("%w: %s is inside source %s", ErrInvalidDestination, dst, src)
	}

	return absSrc, absDst, nil
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
