//go:build darwin

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile tries clonefile first (copy-on-write), then falls back to
// read/write on macOS. After a clone DstFd refers to the replaced inode, so
// callers must apply metadata by path.
func CopyFile(params CopyFileParams) (CopyResult, error) {
	if res, ok := cloneInto(params); ok {
		return res, nil
	}
	return copyReadWrite(params)
}

// cloneInto clones next to the placeholder and renames over it, since
// clonefile refuses an existing destination.
func cloneInto(params CopyFileParams) (CopyResult, bool) {
	dst := params.DstFd.Name()
	clone := dst + ".clone"
	if err := unix.Clonefile(params.SrcPath, clone, unix.CLONE_NOFOLLOW); err != nil {
		return CopyResult{}, false
	}
	if err := os.Rename(clone, dst); err != nil {
		_ = os.Remove(clone)
		return CopyResult{}, false
	}
	return CopyResult{BytesWritten: params.SrcSize, Method: Clonefile}, true
}
