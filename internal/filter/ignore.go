package filter

import (
	"fmt"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile is a compiled set of gitignore-syntax patterns.
type IgnoreFile struct {
	source string
	ignore *gitignore.GitIgnore
}

// LoadIgnoreFile compiles the gitignore-syntax file at path. A missing file
// is returned as an error wrapping os.ErrNotExist.
func LoadIgnoreFile(path string) (*IgnoreFile, error) {
	ig, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("load ignore file: %w", err)
	}
	return &IgnoreFile{source: path, ignore: ig}, nil
}

// CompileIgnoreLines compiles patterns given inline.
func CompileIgnoreLines(lines ...string) *IgnoreFile {
	return &IgnoreFile{source: "<inline>", ignore: gitignore.CompileIgnoreLines(lines...)}
}

// Match reports whether relPath is ignored. Directories are matched with a
// trailing slash so "name/" patterns apply to them.
func (f *IgnoreFile) Match(relPath string, isDir bool) bool {
	if isDir {
		relPath += "/"
	}
	return f.ignore.MatchesPath(relPath)
}

// Source returns the file the patterns were read from.
func (f *IgnoreFile) Source() string {
	return f.source
}
