package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// compiledPattern is a validated rsync-style glob that can match paths.
type compiledPattern struct {
	glob     string
	original string
	anchored bool // pattern starts with / or contains a /
	dirOnly  bool // pattern ends with /
}

// compilePattern converts an rsync-style pattern into a doublestar glob.
func compilePattern(pattern string) (*compiledPattern, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.New("empty filter pattern")
	}
	cp := &compiledPattern{original: pattern}

	// Trailing / means directory-only.
	if strings.HasSuffix(pattern, "/") {
		cp.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	// Leading / means anchored to root.
	if strings.HasPrefix(pattern, "/") {
		cp.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	} else if strings.Contains(pattern, "/") {
		// An inner / anchors the pattern too, as in rsync.
		cp.anchored = true
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("pattern %q: %w", cp.original, doublestar.ErrBadPattern)
	}

	// Unanchored patterns match the basename at any depth.
	if !cp.anchored && !strings.HasPrefix(pattern, "**/") {
		pattern = "**/" + pattern
	}
	cp.glob = pattern
	return cp, nil
}

// match tests whether a slash-separated relative path matches this pattern.
func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	ok, err := doublestar.Match(cp.glob, relPath)
	return err == nil && ok
}

// String returns the pattern as the user wrote it.
func (cp *compiledPattern) String() string {
	return cp.original
}
