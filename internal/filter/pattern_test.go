package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatching(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"*.pyc", "mod.pyc", false, true},
		{"*.pyc", "pkg/sub/mod.pyc", false, true},
		{"*.pyc", "mod.pyc.bak", false, false},
		{"**/*.go", "main.go", false, true},
		{"**/*.go", "cmd/graft/main.go", false, true},
		{"**/*.go", "main.txt", false, false},
		{"/setup.cfg", "setup.cfg", false, true},
		{"/setup.cfg", "sub/setup.cfg", false, false},
		{"docs/*.md", "docs/index.md", false, true},
		{"docs/*.md", "vendor/docs/index.md", false, false},
		{"file?.txt", "file1.txt", false, true},
		{"file?.txt", "file12.txt", false, false},
		{"file?.txt", "file/.txt", false, false},
		{"[!a]*.c", "b.c", false, true},
		{"[!a]*.c", "a.c", false, false},
		{"build/", "build", true, true},
		{"build/", "sub/build", true, true},
		{"build/", "build", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.path, func(t *testing.T) {
			p, err := compilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.match(tt.path, tt.isDir))
		})
	}
}

func TestPatternFlags(t *testing.T) {
	p, err := compilePattern("/out/")
	require.NoError(t, err)
	assert.True(t, p.anchored)
	assert.True(t, p.dirOnly)
	assert.Equal(t, "/out/", p.String())

	p, err = compilePattern("a/b")
	require.NoError(t, err)
	assert.True(t, p.anchored)
	assert.False(t, p.dirOnly)
}

func TestPatternInvalid(t *testing.T) {
	for _, pattern := range []string{"", "  ", "[unclosed"} {
		_, err := compilePattern(pattern)
		assert.Error(t, err, "pattern %q", pattern)
	}
}
