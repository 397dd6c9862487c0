package report

import (
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/chronoscan/internal/model"
)

// maxCellWidth is the display width at which table cells are truncated.
const maxCellWidth = 60

// severityLabels are the summary table labels per severity.
var severityLabels = map[model.Severity]string{
	model.SeverityCritical:  "🔴 Critical",
	model.SeveritySensitive: "🟠 Sensitive",
	model.SeverityInfo:      "⚪ Info",
}

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
	version string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownVersion names the chronoscan version in the footer.
func WithMarkdownVersion(version string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.version = version
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeSections(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Chronoscan Intelligence Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Timestamp", report.ReportTime().Format(TimestampLayout)},
			{"Archived URLs", strconv.Itoa(report.SnapshotCount)},
			{"Findings", strconv.Itoa(len(report.Findings))},
		},
	})
	md.PlainText("")
}

// writeSummary writes the severity table, pie chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScanReport) {
	critical := report.CountBySeverity(model.SeverityCritical)
	sensitive := report.CountBySeverity(model.SeveritySensitive)
	info := report.CountBySeverity(model.SeverityInfo)

	rows := make([][]string, 0, len(model.Severities())+1)
	for _, s := range model.Severities() {
		rows = append(rows, []string{severityLabels[s], strconv.Itoa(report.CountBySeverity(s))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(report.Findings)) + "**"})

	md.H2("Severity Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.HasFindings() {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Findings by Category"),
			piechart.WithShowData(true),
		)
		for _, s := range report.Sections() {
			chart.LabelAndIntValue(s.Category.String(), uint64(s.Count())) //nolint:gosec // count is never negative
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case critical > 0:
		md.Cautionf("%d critical artifact(s) archived. Verify whether they are still reachable and rotate any exposed secrets.", critical)
	case sensitive > 0:
		md.Warningf("%d source code artifact(s) archived.", sensitive)
	case info > 0:
		md.Note("Only informational documents were found.")
	default:
		md.Tip("No sensitive artifacts were found.")
	}
	md.PlainText("")
}

// writeSections writes a category table followed by each category's URLs.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, report *model.ScanReport) {
	sections := report.Sections()

	md.H2("Findings")
	md.PlainText("")

	if len(sections) == 0 {
		md.PlainText("No sensitive artifacts found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		info := s.Category.Info()
		rows = append(rows, []string{
			s.Category.String(),
			info.Severity.String(),
			strconv.Itoa(s.Count()),
			truncateCell(info.Recommendation),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Severity", "Items", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, s := range sections {
		md.H3f("%s (%d items)", s.Category.String(), s.Count())
		md.PlainText("")
		if impact := s.Category.Info().Impact; impact != "" {
			md.Blockquote(impact)
			md.PlainText("")
		}
		items := make([]string, 0, len(s.URLs))
		for _, u := range s.URLs {
			items = append(items, "`"+u+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	if w.version != "" {
		md.PlainTextf("*Report generated by chronoscan %s*", w.version)
		return
	}
	md.PlainText("*Report generated by chronoscan*")
}

// truncateCell shortens s to maxCellWidth display columns.
// East Asian wide characters count as two columns.
func truncateCell(s string) string {
	if s == "" {
		return "-"
	}
	return runewidth.Truncate(s, maxCellWidth, "...")
}
