package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/graft/internal/config"
)

// Catppuccin Mocha palette, mutable so config can override.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorBlue   = lipgloss.Color("#89b4fa")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorTeal   = lipgloss.Color("#94e2d5")
	ColorMuted  = lipgloss.Color("#5a6278")
)

type tagKind int

const (
	tagHeader tagKind = iota
	tagExcluded
	tagCreated
	tagExists
	tagSkipped
	tagCopied
	tagError
)

// styles is rebuilt by rebuildStyles after color changes.
var styles map[tagKind]lipgloss.Style

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styles = map[tagKind]lipgloss.Style{
		tagHeader:   lipgloss.NewStyle().Bold(true).Foreground(ColorBlue),
		tagExcluded: lipgloss.NewStyle().Foreground(ColorMuted),
		tagCreated:  lipgloss.NewStyle().Foreground(ColorBlue),
		tagExists:   lipgloss.NewStyle().Foreground(ColorTeal),
		tagSkipped:  lipgloss.NewStyle().Foreground(ColorYellow),
		tagCopied:   lipgloss.NewStyle().Foreground(ColorGreen),
		tagError:    lipgloss.NewStyle().Foreground(ColorRed).Bold(true),
	}
}

// ApplyTheme overrides colors from a config ThemeConfig and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	if tc.Green != nil {
		ColorGreen = lipgloss.Color(*tc.Green)
	}
	if tc.Blue != nil {
		ColorBlue = lipgloss.Color(*tc.Blue)
	}
	if tc.Yellow != nil {
		ColorYellow = lipgloss.Color(*tc.Yellow)
	}
	if tc.Red != nil {
		ColorRed = lipgloss.Color(*tc.Red)
	}
	if tc.Teal != nil {
		ColorTeal = lipgloss.Color(*tc.Teal)
	}
	if tc.Muted != nil {
		ColorMuted = lipgloss.Color(*tc.Muted)
	}
	rebuildStyles()
}
