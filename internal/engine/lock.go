package engine

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/zeebo/blake3"
)

// DestLock is an advisory lock held for the duration of a merge so two
// merges never write into the same destination at once.
type DestLock struct {
	fl *flock.Flock
}

// AcquireLock takes the lock for dst without blocking. If another process
// (or another DestLock in this one) holds it, the error wraps ErrLocked.
func AcquireLock(dst string) (*DestLock, error) {
	path := LockPath(dst)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock file %s)", ErrLocked, dst, path)
	}
	return &DestLock{fl: fl}, nil
}

// Release drops the lock. The lock file stays behind for reuse.
func (l *DestLock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}

// Path returns the lock file path.
func (l *DestLock) Path() string {
	return l.fl.Path()
}

// LockPath returns the lock file for dst, keyed by its resolved absolute
// path so different spellings of one directory share a lock.
func LockPath(dst string) string {
	key := lockKey(resolvePath(dst))
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "graft", key+".lock")
	}
	return filepath.Join(os.TempDir(), "graft-"+key+".lock")
}

func lockKey(path string) string {
	h := blake3.New()
	h.Write([]byte(path))
	digest := h.Sum(nil)
	return hex.EncodeToString(digest[:8])
}

func resolvePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return p
}
