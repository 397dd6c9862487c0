package model

// Category is the name of a sensitive artifact class.
// The string value is the display name used in reports.
type Category string

const (
	// CategoryConfiguration covers configuration files (.env, .yml, .xml, ...).
	CategoryConfiguration Category = "Configuration"

	// CategoryDatabase covers database files, dumps and logs.
	CategoryDatabase Category = "Database"

	// CategorySourceCode covers server-side source and VCS metadata.
	CategorySourceCode Category = "Source Code"

	// CategoryDocuments covers office documents and plain data files.
	CategoryDocuments Category = "Documents"

	// CategoryKeysSecrets covers URLs that mention credentials anywhere.
	CategoryKeysSecrets Category = "Keys/Secrets"
)

// CategoryInfo contains metadata about a category including severity,
// impact description, and remediation recommendation.
type CategoryInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// categoryInfoMapping maps categories to their metadata.
// Unknown categories fall back to SeverityInfo with no guidance.
var categoryInfoMapping = map[Category]CategoryInfo{
	CategoryConfiguration: {
		Severity:       SeverityCritical,
		Impact:         "Archived configuration files frequently contain connection strings, credentials and internal hostnames.",
		Recommendation: "Verify whether the file is still served, rotate any credentials it contains and request removal from the archive.",
	},
	CategoryDatabase: {
		Severity:       SeverityCritical,
		Impact:         "Database dumps, backups and logs can expose user records and application secrets.",
		Recommendation: "Remove dumps from the web root, rotate exposed credentials and review what data the archive captured.",
	},
	CategoryKeysSecrets: {
		Severity:       SeverityCritical,
		Impact:         "The URL itself references a credential-bearing parameter or key file.",
		Recommendation: "Treat any token or key in the URL as compromised and revoke it.",
	},
	CategorySourceCode: {
		Severity:       SeveritySensitive,
		Impact:         "Source files and VCS metadata reveal implementation details and sometimes hardcoded secrets.",
		Recommendation: "Block access to VCS directories and make sure server-side sources are executed, not served.",
	},
	CategoryDocuments: {
		Severity:       SeverityInfo,
		Impact:         "Documents may contain internal information or personal data.",
		Recommendation: "Review the archived document for sensitive content.",
	},
}

// Info returns the metadata for the category.
func (c Category) Info() CategoryInfo {
	if info, ok := categoryInfoMapping[c]; ok {
		return info
	}
	return CategoryInfo{Severity: SeverityInfo}
}

// Severity returns the severity assigned to the category.
func (c Category) Severity() Severity {
	return c.Info().Severity
}

// String returns the display name of the category.
func (c Category) String() string {
	return string(c)
}
