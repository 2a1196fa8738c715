package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/graft/internal/report"
	"github.com/bamsammich/graft/internal/stats"
)

// quietPresenter prints only errors and a one-line summary.
type quietPresenter struct {
	errW  io.Writer
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for ev := range events {
		switch ev.Type {
		case EntryFailed:
			fmt.Fprintln(p.errW, "ERROR "+errText(ev))
		case VerifyFailed:
			fmt.Fprintln(p.errW, "MISMATCH: "+errText(ev))
		}
	}
	return nil
}

func (p *quietPresenter) Summary(r *report.Report) string {
	return completionSummary(r, snapshotOf(p.stats))
}
