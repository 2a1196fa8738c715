// Package report holds the outcome of a merge: the paths it created, copied
// and skipped, and the entries that failed.
package report

import (
	"cmp"
	"slices"
)

// Failure is a per-entry error captured during a merge.
type Failure struct {
	Path  string `json:"path"  yaml:"path"`
	Op    string `json:"op"    yaml:"op"`
	Error string `json:"error" yaml:"error"`
}

// Counts summarizes a report.
type Counts struct {
	CreatedDirs     int `json:"created_dirs"     yaml:"created_dirs"`
	CopiedFiles     int `json:"copied_files"     yaml:"copied_files"`
	SkippedExisting int `json:"skipped_existing" yaml:"skipped_existing"`
	Errors          int `json:"errors"           yaml:"errors"`
}

// Report is built by a single merge. Paths are slash-separated and relative
// to the merge roots, recorded in traversal order.
type Report struct {
	Source          string
	Destination     string
	DryRun          bool
	CreatedDirs     []string
	CopiedFiles     []string
	SkippedExisting []string
	Errors          []Failure
}

// New returns an empty report for a merge of src into dst.
func New(src, dst string, dryRun bool) *Report {
	return &Report{
		Source:          src,
		Destination:     dst,
		DryRun:          dryRun,
		CreatedDirs:     []string{},
		CopiedFiles:     []string{},
		SkippedExisting: []string{},
		Errors:          []Failure{},
	}
}

func (r *Report) AddCreatedDir(rel string)      { r.CreatedDirs = append(r.CreatedDirs, rel) }
func (r *Report) AddCopiedFile(rel string)      { r.CopiedFiles = append(r.CopiedFiles, rel) }
func (r *Report) AddSkippedExisting(rel string) { r.SkippedExisting = append(r.SkippedExisting, rel) }

// AddFailure records a per-entry error.
func (r *Report) AddFailure(rel, op string, err error) {
	r.Errors = append(r.Errors, Failure{Path: rel, Op: op, Error: err.Error()})
}

// Counts returns the size of each category.
func (r *Report) Counts() Counts {
	return Counts{
		CreatedDirs:     len(r.CreatedDirs),
		CopiedFiles:     len(r.CopiedFiles),
		SkippedExisting: len(r.SkippedExisting),
		Errors:          len(r.Errors),
	}
}

// Sorted returns a copy with every listing in lexical order.
func (r *Report) Sorted() *Report {
	out := *r
	out.CreatedDirs = sortedCopy(r.CreatedDirs)
	out.CopiedFiles = sortedCopy(r.CopiedFiles)
	out.SkippedExisting = sortedCopy(r.SkippedExisting)
	out.Errors = append([]Failure{}, r.Errors...)
	slices.SortStableFunc(out.Errors, func(a, b Failure) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return &out
}

func sortedCopy(s []string) []string {
	out := append([]string{}, s...)
	slices.Sort(out)
	return out
}
