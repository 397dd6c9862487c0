package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/chronoscan/internal/model"
)

// Sheet names used by XLSXWriter.
const (
	FindingsSheet = "Findings"
	SummarySheet  = "Summary"
)

// XLSXWriter outputs reports as an Excel workbook.
// The Findings sheet has one row per finding and the Summary sheet holds
// scan metadata and per-category counts.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report as an XLSX workbook.
func (w *XLSXWriter) Write(report *model.ScanReport) (int, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	if err := f.SetSheetName("Sheet1", FindingsSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := w.writeFindings(f, report); err != nil {
		return 0, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return 0, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := w.writeSummary(f, report); err != nil {
		return 0, err
	}

	n, err := f.WriteTo(w.output)
	return int(n), err
}

func (w *XLSXWriter) writeFindings(f *excelize.File, report *model.ScanReport) error {
	header := []any{"#", "Category", "Severity", "URL"}
	if err := f.SetSheetRow(FindingsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(FindingsSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	for _, s := range report.Sections() {
		for _, u := range s.URLs {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []any{row - 1, s.Category.String(), s.Category.Severity().String(), u}
			if err := f.SetSheetRow(FindingsSheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(FindingsSheet, "B", "C", 16); err != nil {
		return err
	}
	return f.SetColWidth(FindingsSheet, "D", "D", 80)
}

func (w *XLSXWriter) writeSummary(f *excelize.File, report *model.ScanReport) error {
	rows := [][]any{
		{"Target", report.Target},
		{"Timestamp", report.ReportTime().Format(TimestampLayout)},
		{"Archived URLs", report.SnapshotCount},
		{"Findings", len(report.Findings)},
		{},
		{"Category", "Severity", "Items"},
	}
	for _, s := range report.Sections() {
		rows = append(rows, []any{s.Category.String(), s.Category.Severity().String(), s.Count()})
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	return f.SetColWidth(SummarySheet, "A", "A", 16)
}
