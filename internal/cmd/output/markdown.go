package output

import (
	"encoding/json"
	"fmt"
	"io"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/dimcheck/internal/cmd/table"
	"github.com/agentstation/dimcheck/pkg/report"
)

// MarkdownFormatter outputs GitHub flavoured markdown tables.
type MarkdownFormatter struct{}

// Format renders table.Data, structs and struct slices as a markdown table.
// Anything else is written as a fenced JSON block.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case table.Data:
		return md.NewMarkdown(w).Table(tableSet(v)).Build()
	case *table.Data:
		return md.NewMarkdown(w).Table(tableSet(*v)).Build()
	}
	if d := toTableData(data); d != nil {
		return md.NewMarkdown(w).Table(tableSet(*d)).Build()
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return md.NewMarkdown(w).CodeBlocks(md.SyntaxHighlight("json"), string(raw)).Build()
}

func tableSet(d table.Data) md.TableSet {
	return md.TableSet{Header: d.Headers, Rows: d.Rows}
}

// writeMarkdownReport renders the summary, the listed rows and, on request,
// the per-box breakdown as one markdown document.
func writeMarkdownReport(w io.Writer, rep *report.Report, opts ReportOptions) error {
	doc := md.NewMarkdown(w).H2("Reconciliation report")
	doc.Table(tableSet(table.SummaryToTableData(rep)))

	rows, title := rep.Failures(), "Failures"
	if opts.All {
		rows, title = rep.Rows, "Units"
	}
	if len(rows) > 0 {
		doc.H3(title).Table(tableSet(table.RowsToTableData(rows)))
	}

	if unresolved := rep.Unresolved(); len(unresolved) > 0 && !opts.All {
		doc.PlainText(md.Italic(fmt.Sprintf("%d unit(s) classified into boxes outside the selection", len(unresolved)))).LF()
	}

	if opts.Labels {
		doc.H3("Boxes").Table(tableSet(table.LabelsToTableData(rep.LabelBreakdown())))
	}
	return doc.Build()
}
