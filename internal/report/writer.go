package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/nao1215/chronoscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations write scan results in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScanReport) (int, error)
}

// Format is a report output format.
type Format string

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// Formats returns the supported report formats in display order.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown, FormatXLSX}
}

// ParseFormat returns the Format named by s. The empty string is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	default:
		if slices.Contains(Formats(), f) {
			return f, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// WriterOption configures the writers built by NewWriter and Save.
type WriterOption func(*writerOptions)

type writerOptions struct {
	version string
}

// WithToolVersion records the chronoscan version in formats that carry it.
func WithToolVersion(version string) WriterOption {
	return func(o *writerOptions) {
		o.version = version
	}
}

// NewWriter returns the Writer for format that outputs to w.
func NewWriter(format Format, w io.Writer, opts ...WriterOption) (Writer, error) {
	o := &writerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	switch format {
	case FormatText, "":
		return NewTextWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, WithPrettyPrint(), WithVersion(o.version)), nil
	case FormatMarkdown:
		return NewMarkdownWriter(w, WithMarkdownVersion(o.version)), nil
	case FormatXLSX:
		return NewXLSXWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
