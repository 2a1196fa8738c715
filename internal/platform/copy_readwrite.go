package platform

import (
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite copies data using positional reads and writes with a pooled
// buffer. It stops at EOF even if the source shrank after SrcSize was taken.
func copyReadWrite(params CopyFileParams) (CopyResult, error) {
	srcFd, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	var offset int64
	remaining := params.SrcSize
	for remaining > 0 {
		toRead := int64(bufferSize)
		if toRead > remaining {
			toRead = remaining
		}

		n, err := srcFd.ReadAt(buf[:toRead], offset)
		if n > 0 {
			if _, werr := params.DstFd.WriteAt(buf[:n], offset); werr != nil {
				return CopyResult{BytesWritten: offset, Method: ReadWrite}, werr
			}
			offset += int64(n)
			remaining -= int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return CopyResult{BytesWritten: offset, Method: ReadWrite}, err
		}
	}

	return CopyResult{BytesWritten: offset, Method: ReadWrite}, nil
}

// CopyReadWrite is the portable copy path, exported for tests in other
// packages and for callers that need to bypass kernel offload.
func CopyReadWrite(params CopyFileParams) (CopyResult, error) {
	return copyReadWrite(params)
}
