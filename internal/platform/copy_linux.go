//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// kernelStep moves up to n bytes from src to dst inside the kernel,
// advancing *off, and returns how many bytes moved.
type kernelStep func(src, dst int, off *int64, n int) (int, error)

func copyFileRangeStep(src, dst int, off *int64, n int) (int, error) {
	woff := *off
	moved, err := unix.CopyFileRange(src, off, dst, &woff, n, 0)
	return moved, err
}

func sendfileStep(src, dst int, off *int64, n int) (int, error) {
	return unix.Sendfile(dst, src, off, n)
}

// CopyFile copies with copy_file_range, then sendfile, then plain reads and
// writes. It only falls through when the earlier method wrote nothing and
// failed with an unsupported or cross-device error.
func CopyFile(params CopyFileParams) (CopyResult, error) {
	preallocate(params.DstFd, params.SrcSize)

	srcFd, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	for _, m := range []struct {
		method CopyMethod
		step   kernelStep
	}{
		{CopyFileRange, copyFileRangeStep},
		{Sendfile, sendfileStep},
	} {
		result, err := kernelCopy(srcFd, params, m.method, m.step)
		if err == nil {
			return result, nil
		}
		if !isFallbackErr(err) || result.BytesWritten > 0 {
			return result, err
		}
	}
	return copyReadWrite(params)
}

//nolint:gosec // G115: fd values are small non-negative integers
func kernelCopy(srcFd *os.File, params CopyFileParams, method CopyMethod, step kernelStep) (CopyResult, error) {
	result := CopyResult{Method: method}
	var off int64
	for result.BytesWritten < params.SrcSize {
		n, err := step(int(srcFd.Fd()), int(params.DstFd.Fd()), &off, int(params.SrcSize-result.BytesWritten))
		if err != nil {
			return result, err
		}
		if n == 0 {
			// Source shrank underneath us.
			break
		}
		result.BytesWritten += int64(n)
	}
	return result, nil
}

// isFallbackErr reports whether err means the method is unavailable here
// rather than that the copy itself failed.
func isFallbackErr(err error) bool {
	return errors.Is(err, unix.ENOSYS) ||
		errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EINVAL) ||
		errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP)
}
