package platform

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyInto(t *testing.T, copyFn func(CopyFileParams) (CopyResult, error), data []byte) (CopyResult, []byte) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	dstFd, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	require.NoError(t, err)

	result, err := copyFn(CopyFileParams{
		SrcPath: src,
		DstFd:   dstFd,
		SrcSize: int64(len(data)),
	})
	require.NoError(t, err)
	require.NoError(t, dstFd.Close())

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	return result, got
}

func TestCopyFileBasic(t *testing.T) {
	data := []byte("hello, graft!")
	result, got := copyInto(t, CopyFile, data)

	assert.Equal(t, int64(len(data)), result.BytesWritten)
	assert.Equal(t, data, got)
}

func TestCopyFileLarge(t *testing.T) {
	// 4 MiB, larger than the 1 MiB buffer.
	data := make([]byte, 4*1024*1024)
	_, err := rand.Read(data)
	require.NoError(t, err)

	result, got := copyInto(t, CopyFile, data)
	assert.Equal(t, int64(len(data)), result.BytesWritten)
	assert.Equal(t, data, got)
}

func TestCopyFileEmpty(t *testing.T) {
	result, got := copyInto(t, CopyFile, nil)
	assert.Equal(t, int64(0), result.BytesWritten)
	assert.Empty(t, got)
}

func TestCopyReadWrite(t *testing.T) {
	data := []byte("read-write fallback test")
	result, got := copyInto(t, CopyReadWrite, data)

	assert.Equal(t, ReadWrite, result.Method)
	assert.Equal(t, int64(len(data)), result.BytesWritten)
	assert.Equal(t, data, got)
}

func TestCopyReadWriteShrunkSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("short"), 0o644))

	dstFd, err := os.Create(filepath.Join(dir, "dst"))
	require.NoError(t, err)
	defer dstFd.Close()

	// Claimed size larger than the file: the copy stops at EOF.
	result, err := CopyReadWrite(CopyFileParams{SrcPath: src, DstFd: dstFd, SrcSize: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.BytesWritten)
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	dstFd, err := os.Create(filepath.Join(dir, "dst"))
	require.NoError(t, err)
	defer dstFd.Close()

	_, err = CopyFile(CopyFileParams{SrcPath: filepath.Join(dir, "nope"), DstFd: dstFd, SrcSize: 1})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCopyMethodString(t *testing.T) {
	assert.Equal(t, "read_write", ReadWrite.String())
	assert.Equal(t, "copy_file_range", CopyFileRange.String())
	assert.Equal(t, "sendfile", Sendfile.String())
	assert.Equal(t, "clonefile", Clonefile.String())
	assert.Equal(t, "unknown", CopyMethod(99).String())
}
