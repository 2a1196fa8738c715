package engine

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bamsammich/graft/internal/platform"
)

// copyFile copies src to dst through a hidden temp file in dst's directory,
// then publishes it without replacing anything. If dst appeared in the
// meantime the error wraps errDestinationTaken and dst is untouched.
func (m *merger) copyFile(ctx context.Context, src, dst string, info fs.FileInfo) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create parent dir: %w", err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.graft-tmp", filepath.Base(dst), uuid.New().String()[:8]))
	RegisterTmp(tmpPath)
	defer func() {
		DeregisterTmp(tmpPath)
		_ = os.Remove(tmpPath) // no-op once published
	}()

	tmpFd, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := m.copyData(ctx, src, tmpFd, info.Size())
	if err != nil {
		tmpFd.Close()
		return n, fmt.Errorf("copy data: %w", err)
	}
	if err := tmpFd.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}

	// Metadata goes on by path: a clone may have replaced the inode.
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return n, fmt.Errorf("chmod: %w", err)
	}
	if err := setFileTimes(tmpPath, atimeOf(info), info.ModTime()); err != nil {
		return n, err
	}

	if err := platform.RenameNoReplace(tmpPath, dst); err != nil {
		return n, fmt.Errorf("publish: %w", claimErr(err))
	}
	return n, nil
}

func (m *merger) copyData(ctx context.Context, src string, dstFd *os.File, size int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if m.limiter == nil {
		result, err := platform.CopyFile(platform.CopyFileParams{
			SrcPath: src,
			DstFd:   dstFd,
			SrcSize: size,
		})
		if err == nil {
			m.log.Debug("file data copied", "src", src, "method", result.Method.String(), "bytes", result.BytesWritten)
		}
		return result.BytesWritten, err
	}

	srcFd, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer srcFd.Close()
	return io.Copy(dstFd, newRateLimitedReader(ctx, srcFd, m.limiter))
}

// createSymlink recreates a link with the literal target string. The kernel
// refuses an existing dst; that error wraps errDestinationTaken.
func createSymlink(target, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return claimErr(os.Symlink(target, dst))
}
