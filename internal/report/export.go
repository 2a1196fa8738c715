package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the encoding from a file extension: .yaml and .yml select
// YAML, anything else JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

type document struct {
	Source          string    `json:"source"           yaml:"source"`
	Destination     string    `json:"destination"      yaml:"destination"`
	DryRun          bool      `json:"dry_run"          yaml:"dry_run"`
	Counts          Counts    `json:"counts"           yaml:"counts"`
	CreatedDirs     []string  `json:"created_dirs"     yaml:"created_dirs"`
	CopiedFiles     []string  `json:"copied_files"     yaml:"copied_files"`
	SkippedExisting []string  `json:"skipped_existing" yaml:"skipped_existing"`
	Errors          []Failure `json:"errors"           yaml:"errors"`
}

// Encode writes the sorted report with its counts to w.
func (r *Report) Encode(w io.Writer, format Format) error {
	s := r.Sorted()
	doc := document{
		Source:          s.Source,
		Destination:     s.Destination,
		DryRun:          s.DryRun,
		Counts:          s.Counts(),
		CreatedDirs:     s.CreatedDirs,
		CopiedFiles:     s.CopiedFiles,
		SkippedExisting: s.SkippedExisting,
		Errors:          s.Errors,
	}
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		return nil
	}
}

// WriteFile writes the report to path in the format its extension selects.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := r.Encode(f, FormatFor(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
