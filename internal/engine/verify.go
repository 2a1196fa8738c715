package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/bamsammich/graft/internal/event"
	"github.com/bamsammich/graft/internal/stats"
)

// VerifyConfig controls the post-merge verification pass.
type VerifyConfig struct {
	SrcRoot string
	DstRoot string
	Paths   []string // slash-separated, relative to both roots
	Workers int
	Events  chan<- event.Event
	Stats   stats.Writer
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Verified int64
	Failed   int64
	Errors   []VerifyError
}

// VerifyError records a single mismatch. For symlinks the "hashes" are the
// link targets.
type VerifyError struct {
	Path    string
	SrcHash string
	DstHash string
	Err     error
}

func (e VerifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: source %s, destination %s", e.Path, e.SrcHash, e.DstHash)
}

// Verify re-checks every path the merge copied: regular files by BLAKE3
// digest, symlinks by target string. It fans out to cfg.Workers goroutines.
func Verify(ctx context.Context, cfg VerifyConfig) VerifyResult {
	emit(ctx, cfg.Events, event.Event{Type: event.VerifyStarted})

	workers := cfg.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 8)
	}

	taskCh := make(chan string, workers*2)
	var mu sync.Mutex
	var result VerifyResult
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range taskCh {
				if ctx.Err() != nil {
					continue
				}
				verr := verifyOne(cfg.SrcRoot, cfg.DstRoot, rel)

				mu.Lock()
				if verr == nil {
					result.Verified++
				} else {
					result.Failed++
					result.Errors = append(result.Errors, *verr)
				}
				mu.Unlock()

				if verr == nil {
					if cfg.Stats != nil {
						cfg.Stats.AddFilesVerified(1)
					}
					emit(ctx, cfg.Events, event.Event{Type: event.VerifyOK, Path: rel})
					continue
				}
				if cfg.Stats != nil {
					cfg.Stats.AddFilesVerifyFailed(1)
				}
				emit(ctx, cfg.Events, event.Event{Type: event.VerifyFailed, Path: rel, Error: verr})
			}
		}()
	}

feed:
	for _, rel := range cfg.Paths {
		select {
		case <-ctx.Done():
			break feed
		case taskCh <- rel:
		}
	}
	close(taskCh)
	wg.Wait()

	return result
}

func verifyOne(srcRoot, dstRoot, rel string) *VerifyError {
	srcPath := filepath.Join(srcRoot, filepath.FromSlash(rel))
	dstPath := filepath.Join(dstRoot, filepath.FromSlash(rel))

	info, err := os.Lstat(srcPath)
	if err != nil {
		return &VerifyError{Path: rel, Err: err}
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		srcTarget, err := os.Readlink(srcPath)
		if err != nil {
			return &VerifyError{Path: rel, Err: err}
		}
		dstTarget, err := os.Readlink(dstPath)
		if err != nil {
			return &VerifyError{Path: rel, SrcHash: srcTarget, Err: err}
		}
		if srcTarget != dstTarget {
			return &VerifyError{Path: rel, SrcHash: srcTarget, DstHash: dstTarget}
		}
		return nil
	}

	srcHash, err := HashFile(srcPath)
	if err != nil {
		return &VerifyError{Path: rel, Err: err}
	}
	dstHash, err := HashFile(dstPath)
	if err != nil {
		return &VerifyError{Path: rel, SrcHash: srcHash, Err: err}
	}
	if srcHash != dstHash {
		return &VerifyError{Path: rel, SrcHash: srcHash, DstHash: dstHash}
	}
	return nil
}
