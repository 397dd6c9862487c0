package model

import (
	"strings"
	"time"
)

// Outcome is the terminal state of a scan.
//
// A scan ends in one of three states rather than a plain success/failure:
// the archive had nothing, the archive had URLs but none were sensitive,
// or findings were produced.
type Outcome int

const (
	// OutcomePending means the scan has not finished yet.
	OutcomePending Outcome = iota

	// OutcomeNoData means the archive returned no URLs (including 404 and
	// any fetch failure).
	OutcomeNoData

	// OutcomeNoFindings means URLs were retrieved but none matched a rule.
	OutcomeNoFindings

	// OutcomeFindings means at least one finding was produced.
	OutcomeFindings
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeNoData:
		return "no_data"
	case OutcomeNoFindings:
		return "no_findings"
	case OutcomeFindings:
		return "findings"
	default:
		return "unknown"
	}
}

// ParseOutcome converts the String form back into an Outcome.
// Unrecognised values map to OutcomePending.
func ParseOutcome(s string) Outcome {
	switch s {
	case "no_data":
		return OutcomeNoData
	case "no_findings":
		return OutcomeNoFindings
	case "findings":
		return OutcomeFindings
	default:
		return OutcomePending
	}
}

// Finding is a single archived URL assigned to exactly one category.
type Finding struct {
	// Category is the matched category.
	Category Category `json:"category"`

	// Severity is derived from Category and stored for consumers that
	// only read serialized reports.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// URL is the archived URL as returned by the index.
	URL string `json:"url"`
}

// NewFinding creates a Finding with severity fields populated from the category.
func NewFinding(category Category, url string) Finding {
	severity := category.Severity()
	return Finding{
		Category:     category,
		Severity:     severity,
		SeverityText: severity.String(),
		URL:          url,
	}
}

// Section is the group of findings for one category, in discovery order.
type Section struct {
	Category Category `json:"category"`
	URLs     []string `json:"urls"`
}

// Count returns the number of URLs in the section.
func (s Section) Count() int {
	return len(s.URLs)
}

// ScanReport holds all state for a single target scan.
// It is created once per target and filled in by the pipeline steps.
type ScanReport struct {
	// Target is the normalized host that was queried.
	Target string `json:"target"`

	// GeneratedAt is when the scan started.
	GeneratedAt time.Time `json:"generated_at"`

	// ReportedAt is when the report file was written. Zero until then.
	ReportedAt time.Time `json:"reported_at,omitzero"`

	// Snapshots holds the archived URLs returned by the index.
	// It is not serialized; SnapshotCount keeps the size.
	Snapshots []string `json:"-"`

	// SnapshotCount is the number of URLs returned by the index.
	SnapshotCount int `json:"snapshot_count"`

	// Findings are the classified URLs in discovery order.
	Findings []Finding `json:"findings"`

	// Outcome is the terminal state of the scan.
	Outcome Outcome `json:"-"`

	// OutcomeText is the serialized form of Outcome.
	OutcomeText string `json:"outcome"`

	// ReportPath is where the report file was written, if any.
	ReportPath string `json:"report_path,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error contains the last advisory error message, if any.
	Error string `json:"error,omitempty"`
}

// NewScanReport creates a ScanReport for the given normalized target.
func NewScanReport(target string) *ScanReport {
	return &ScanReport{
		Target:      target,
		GeneratedAt: time.Now(),
		Findings:    make([]Finding, 0),
		Outcome:     OutcomePending,
		OutcomeText: OutcomePending.String(),
	}
}

// SetSnapshots records the archived URLs returned by the index.
func (r *ScanReport) SetSnapshots(urls []string) {
	r.Snapshots = urls
	r.SnapshotCount = len(urls)
}

// AddFinding appends a finding, keeping discovery order.
func (r *ScanReport) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// SetOutcome records the terminal state of the scan.
func (r *ScanReport) SetOutcome(o Outcome) {
	r.Outcome = o
	r.OutcomeText = o.String()
}

// HasFindings reports whether any finding was produced.
func (r *ScanReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// Sections groups findings by category.
// Categories appear in the order they were first seen, and URLs within a
// category keep discovery order.
func (r *ScanReport) Sections() []Section {
	sections := make([]Section, 0)
	index := make(map[Category]int)

	for _, f := range r.Findings {
		i, ok := index[f.Category]
		if !ok {
			i = len(sections)
			index[f.Category] = i
			sections = append(sections, Section{Category: f.Category})
		}
		sections[i].URLs = append(sections[i].URLs, f.URL)
	}

	return sections
}

// ReportTime returns when the report was written, falling back to the scan
// start for reports that were never saved.
func (r *ScanReport) ReportTime() time.Time {
	if r.ReportedAt.IsZero() {
		return r.GeneratedAt
	}
	return r.ReportedAt
}

// CountBySeverity returns the number of findings at the given severity.
func (r *ScanReport) CountBySeverity(s Severity) int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			count++
		}
	}
	return count
}

// SeveritySummary returns finding counts keyed by lower-case severity name.
func (r *ScanReport) SeveritySummary() map[string]int {
	summary := make(map[string]int, len(Severities()))
	for _, s := range Severities() {
		summary[strings.ToLower(s.String())] = r.CountBySeverity(s)
	}
	return summary
}
