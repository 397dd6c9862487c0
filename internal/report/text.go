package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/chronoscan/internal/model"
)

// TextTitle is the first line of a text report.
const TextTitle = "CHRONOSCAN [CHRONOS EDITION] - INTELLIGENCE REPORT"

// TimestampLayout is the layout of the Timestamp line.
const TimestampLayout = "2006-01-02 15:04:05"

// separatorWidth is the width of the "=" line under the header.
const separatorWidth = 60

// TextWriter writes the grouped plain text report:
//
//	CHRONOSCAN [CHRONOS EDITION] - INTELLIGENCE REPORT
//	Target: example.com
//	Timestamp: 2024-01-02 15:04:05
//	============================================================
//
//	[+] CONFIGURATION (1 items)
//	    http://example.com/.env
//
// Categories appear in first-seen order.
type TextWriter struct {
	baseWriter
	upper cases.Caser
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{
		baseWriter: newBaseWriter(output),
		upper:      cases.Upper(language.Und),
	}
}

// Write outputs the report.
func (w *TextWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(TextTitle + "\n")
	fmt.Fprintf(&sb, "Target: %s\n", report.Target)
	fmt.Fprintf(&sb, "Timestamp: %s\n", report.ReportTime().Format(TimestampLayout))
	sb.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	for _, section := range report.Sections() {
		fmt.Fprintf(&sb, "[+] %s (%d items)\n", w.upper.String(section.Category.String()), section.Count())
		for _, u := range section.URLs {
			sb.WriteString("    " + u + "\n")
		}
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}
