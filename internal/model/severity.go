package model

// Severity represents how urgently a finding should be looked at.
//
// The partition is part of the classification contract: downstream consumers
// (live display, report summaries, stored history) branch on it.
type Severity int

const (
	// SeverityInfo marks findings that are worth a look but rarely exploitable
	// on their own, such as archived documents.
	SeverityInfo Severity = iota

	// SeveritySensitive marks exposed source code. It reveals implementation
	// details and occasionally embedded credentials.
	SeveritySensitive

	// SeverityCritical marks configuration files, database artifacts and
	// embedded secrets. These commonly contain credentials directly.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeveritySensitive:
		return "SENSITIVE"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Severities returns all severity levels, most severe first.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeveritySensitive, SeverityInfo}
}
