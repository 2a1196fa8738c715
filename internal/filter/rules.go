package filter

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Built-in exclusions: VCS metadata, Python caches, build output and
// virtualenvs, plus editor and coverage droppings.
var (
	DefaultDirExclusions = []string{
		".git",
		"__pycache__",
		".pytest_cache",
		".mypy_cache",
		".ruff_cache",
		"dist",
		"build",
		"*.egg-info",
		".eggs",
		"venv",
		"env",
		".venv",
		".env",
	}
	DefaultFileExclusions = []string{
		".DS_Store",
		"*.pyc",
		"*.pyo",
		"*.pyd",
		".coverage",
		"coverage.xml",
		"*.log",
	}
)

// Rules is an immutable set of name-based exclusions. A pattern without '*'
// is an exact name; a pattern with '*' matches any name ending in what is
// left once the '*' characters are removed.
type Rules struct {
	dirNames     mapset.Set[string]
	fileNames    mapset.Set[string]
	dirPatterns  []string
	filePatterns []string
	dirSuffixes  []string
	fileSuffixes []string
}

// NewRules builds a rule set. Duplicate patterns are dropped; first
// occurrence order is kept for display.
func NewRules(dirPatterns, filePatterns []string) *Rules {
	r := &Rules{
		dirNames:  mapset.NewThreadUnsafeSet[string](),
		fileNames: mapset.NewThreadUnsafeSet[string](),
	}
	r.dirPatterns, r.dirSuffixes = split(dirPatterns, r.dirNames)
	r.filePatterns, r.fileSuffixes = split(filePatterns, r.fileNames)
	return r
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *Rules {
	return NewRules(DefaultDirExclusions, DefaultFileExclusions)
}

func split(patterns []string, names mapset.Set[string]) (ordered, suffixes []string) {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || !seen.Add(p) {
			continue
		}
		ordered = append(ordered, p)
		if strings.Contains(p, "*") {
			suffixes = append(suffixes, strings.ReplaceAll(p, "*", ""))
		} else {
			names.Add(p)
		}
	}
	return ordered, suffixes
}

// Excluded reports whether the entry at relPath (slash separated) is
// excluded. Any path segment equal to an excluded directory name excludes
// the entry. Suffix directory patterns apply only when isDir is set; file
// names and suffix file patterns apply only when it is not.
func (r *Rules) Excluded(relPath string, isDir bool) bool {
	segments := strings.Split(relPath, "/")
	for _, seg := range segments {
		if r.dirNames.Contains(seg) {
			return true
		}
	}

	name := segments[len(segments)-1]
	if isDir {
		return hasAnySuffix(name, r.dirSuffixes)
	}
	return r.fileNames.Contains(name) || hasAnySuffix(name, r.fileSuffixes)
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// DirPatterns returns the directory patterns in insertion order.
func (r *Rules) DirPatterns() []string {
	return append([]string(nil), r.dirPatterns...)
}

// FilePatterns returns the file patterns in insertion order.
func (r *Rules) FilePatterns() []string {
	return append([]string(nil), r.filePatterns...)
}

// Empty reports whether the rule set excludes nothing.
func (r *Rules) Empty() bool {
	return len(r.dirPatterns) == 0 && len(r.filePatterns) == 0
}
