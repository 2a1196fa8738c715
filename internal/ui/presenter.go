package ui

import (
	"io"

	"github.com/bamsammich/graft/internal/report"
	"github.com/bamsammich/graft/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary renders the closing block for a finished merge.
	Summary(r *report.Report) string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	Src       string
	Dst       string
	Width     int
	DryRun    bool
	Quiet     bool
	Color     bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory picks the presenter from config
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{errW: cfg.ErrWriter, stats: cfg.Stats}
	}
	width := cfg.Width
	if width <= 0 || width > 72 {
		width = 72
	}
	return &plainPresenter{
		w:      cfg.Writer,
		errW:   cfg.ErrWriter,
		stats:  cfg.Stats,
		src:    cfg.Src,
		dst:    cfg.Dst,
		width:  width,
		dryRun: cfg.DryRun,
		color:  cfg.Color,
	}
}
