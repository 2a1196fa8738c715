package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedTime = time.Unix(1_600_000_000, 0)

// writeTree populates root from a map of slash-separated paths. A value
// starting with "->" makes a symlink to the rest of the string; a path
// ending in "/" makes a directory; anything else is file content.
func writeTree(t *testing.T, root string, entries map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(root, 0o755))
	for rel, val := range entries {
		p := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		switch {
		case strings.HasSuffix(rel, "/"):
			require.NoError(t, os.MkdirAll(p, 0o755))
		case strings.HasPrefix(val, "->"):
			require.NoError(t, os.Symlink(strings.TrimPrefix(val, "->"), p))
		default:
			require.NoError(t, os.WriteFile(p, []byte(val), 0o644))
			require.NoError(t, os.Chtimes(p, fixedTime, fixedTime))
		}
	}
}

type entryState struct {
	mode    fs.FileMode
	content string
	target  string
	mtime   time.Time
}

// snapshotTree records every entry under root without following symlinks.
// Directory mtimes are left out: adding children legitimately changes them.
func snapshotTree(t *testing.T, root string) map[string]entryState {
	t.Helper()
	out := map[string]entryState{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		st := entryState{mode: info.Mode()}
		switch {
		case info.Mode().IsRegular():
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			st.content = string(data)
			st.mtime = info.ModTime()
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			st.target = target
		}
		out[filepath.ToSlash(rel)] = st
		return nil
	})
	require.NoError(t, err)
	return out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
