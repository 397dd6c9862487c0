package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/chronoscan/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in the document, if set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// Version is the chronoscan version that generated this report.
	Version string `json:"version,omitempty"`

	// Summary holds finding counts by severity.
	Summary map[string]int `json:"summary"`

	// Sections groups the finding URLs by category in first-seen order.
	Sections []JSONSection `json:"sections"`

	// Report is the full scan report.
	Report *model.ScanReport `json:"report"`
}

// JSONSection is one category block.
type JSONSection struct {
	Category string   `json:"category"`
	Severity string   `json:"severity"`
	Count    int      `json:"count"`
	URLs     []string `json:"urls"`
}

// NewJSONReport builds the JSON document for report.
func NewJSONReport(report *model.ScanReport, version string) *JSONReport {
	sections := report.Sections()
	out := make([]JSONSection, 0, len(sections))
	for _, s := range sections {
		out = append(out, JSONSection{
			Category: s.Category.String(),
			Severity: s.Category.Severity().String(),
			Count:    s.Count(),
			URLs:     s.URLs,
		})
	}

	return &JSONReport{
		Version:  version,
		Summary:  report.SeveritySummary(),
		Sections: out,
		Report:   report,
	}
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}
