package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupTmpFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept")
	stale := filepath.Join(dir, ".x.abcd1234.graft-tmp")
	require.NoError(t, os.WriteFile(kept, []byte("k"), 0o644))
	require.NoError(t, os.WriteFile(stale, []byte("s"), 0o644))

	RegisterTmp(kept)
	DeregisterTmp(kept)
	RegisterTmp(stale)
	RegisterTmp(filepath.Join(dir, "never-created"))

	assert.Equal(t, 1, CleanupTmpFiles())
	_, err := os.Lstat(stale)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Lstat(kept)
	assert.NoError(t, err)

	assert.Zero(t, CleanupTmpFiles())
}
