// Package importer drives the bulk lead import flow: workbook → rows →
// normalized create commands → report. Creates are replayed strictly one at a
// time to bound load on the lead service and keep row order meaningful when a
// run partially fails.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"leadterm/internal/api"
	"leadterm/internal/sheet"
)

// State is the pipeline's position in Idle → Importing → (Success | Failed).
// A terminal state is transient feedback; the pipeline is reusable immediately.
type State int

// Pipeline states.
const (
	Idle State = iota
	Importing
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Importing:
		return "importing"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Creator is the slice of the lead client the pipeline drives.
type Creator interface {
	CreateLead(ctx context.Context, req api.LeadRequest) (api.Lead, error)
}

// Report summarizes one import run. Leads already created stay created even
// when the run ends in Failed; there is no rollback.
type Report struct {
	State   State
	Created int
	Skipped int
	Failed  int
	Leads   []api.Lead
	Errors  []string
}

// Pipeline imports leads from xlsx workbooks.
type Pipeline struct {
	creator Creator
	logger  zerolog.Logger
}

// New returns a pipeline submitting creates through the given client.
func New(creator Creator, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		creator: creator,
		logger:  logger.With().Str("component", "importer").Logger(),
	}
}

// Run decodes the workbook and replays its rows as create commands. Row n+1
// is not submitted before row n's command settles. A row whose mapped name is
// empty after trimming is skipped; a row whose create fails is recorded and
// the run moves on. Only a decode failure or cancellation aborts the
// remaining rows.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) Report {
	report := Report{State: Importing}

	rows, err := sheet.ReadRows(r)
	if err != nil {
		p.logger.Error().Err(err).Msg("import aborted")
		report.State = Failed
		report.Errors = append(report.Errors, err.Error())
		return report
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			report.State = Failed
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			return report
		}

		req := row.MapRow()
		if strings.TrimSpace(req.Name) == "" {
			report.Skipped++
			continue
		}

		lead, err := p.creator.CreateLead(ctx, req)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			p.logger.Warn().Int("row", i+2).Err(err).Msg("row create failed")
			continue
		}
		report.Created++
		report.Leads = append(report.Leads, lead)
	}

	if report.Failed > 0 {
		report.State = Failed
	} else {
		report.State = Success
	}
	p.logger.Info().
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Str("state", report.State.String()).
		Msg("import finished")
	return report
}
