package output

import (
	"fmt"
	"io"

	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/internal/cmd/table"
	"github.com/agentstation/dimcheck/pkg/report"
)

// ReportOptions controls the table rendering of a report.
type ReportOptions struct {
	// All lists every row instead of failures only.
	All bool
	// Labels adds the per-box breakdown table.
	Labels bool
}

// WriteReport renders a report. JSON and YAML get the whole report; the
// table format prints the axis and box tallies, the success line and the
// failure listing. Markdown carries the summary and the same listing as
// tables.
func WriteReport(w io.Writer, rep *report.Report, format Format, opts ReportOptions) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, rep)
	case FormatMarkdown:
		return writeMarkdownReport(w, rep, opts)
	}

	if err := writeTallies(w, rep); err != nil {
		return err
	}

	rows := rep.Failures()
	if opts.All {
		rows = rep.Rows
	}
	if len(rows) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := render(w, table.RowsToTableData(rows)); err != nil {
			return err
		}
	}

	if unresolved := rep.Unresolved(); len(unresolved) > 0 && !opts.All {
		if _, err := fmt.Fprintf(w, "\n%s %d unit(s) classified into boxes outside the selection\n", emoji.Unknown, len(unresolved)); err != nil {
			return err
		}
	}

	if opts.Labels {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := render(w, table.LabelsToTableData(rep.LabelBreakdown())); err != nil {
			return err
		}
	}
	return nil
}

func writeTallies(w io.Writer, rep *report.Report) error {
	s := rep.Summary
	p := &printer{w: w}

	for _, m := range rep.Missing {
		p.printf("%s Box %s is selected but not in the catalog\n", emoji.Warning, m)
	}

	if s.Failed == 0 {
		p.printf("%s No errors!\n", emoji.Success)
	} else {
		for _, as := range s.Axes {
			if as.Failures > 0 {
				p.printf("%s is off: %d out of %d time(s)\n", as.Axis, as.Failures, s.Total)
			}
		}
		for _, lc := range rep.LabelBreakdown() {
			if lc.Failed > 0 {
				p.printf("Box %s is out of spec %d time(s)\n", lc.Label, lc.Failed)
			}
		}
	}

	p.printf("%d out of %d boxes failed: %s success rate\n", s.Failed, s.Total, s.SuccessRate)
	return p.err
}

// printer keeps the first write error so a run of Fprintf calls can be
// checked once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
