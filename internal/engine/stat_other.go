//go:build !linux && !darwin

package engine

import (
	"fmt"
	"io/fs"
	"os"
	"time"
)

func atimeOf(info fs.FileInfo) time.Time {
	return info.ModTime()
}

func setFileTimes(path string, accTime, modTime time.Time) error {
	if err := os.Chtimes(path, accTime, modTime); err != nil {
		return fmt.Errorf("chtimes: %w", err)
	}
	return nil
}
