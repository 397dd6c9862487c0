// Package report renders a scan report and persists it.
//
// Writers for each output format:
//   - TextWriter: the grouped plain text intelligence report
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with a severity pie chart
//   - XLSXWriter: a spreadsheet with one row per finding
//
// Save picks the writer for a format and writes the report to a file,
// producing no file at all when there is nothing to report.
package report
