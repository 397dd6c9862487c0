package classify

import (
	"regexp"
	"strings"

	"github.com/nao1215/chronoscan/internal/model"
)

// Rule pairs a category with the pattern that selects it.
type Rule struct {
	// Category is assigned to URLs matching Pattern.
	Category model.Category

	// Pattern is searched for anywhere in the URL.
	Pattern *regexp.Regexp
}

// Match reports whether the rule matches the URL.
func (r Rule) Match(url string) bool {
	return r.Pattern.MatchString(url)
}

// Extension and token sets for the default rules.
var (
	configExtensions = []string{
		"env", "yml", "yaml", "config", "ini", "conf", "xml", "json", "dockerfile", "bak", "swp",
	}
	databaseExtensions = []string{
		"sql", "db", "sqlite", "mdb", "dump", "backup", "log",
	}
	sourceExtensions = []string{
		"git", "svn", "sh", "py", "php", "pl", "rb", "go", "asp", "aspx", "jsp",
	}
	documentExtensions = []string{
		"doc", "docx", "xls", "xlsx", "pdf", "txt", "csv",
	}
	secretTokens = []string{
		"api_key", "secret", "token", "auth", "password", "jenkins", "id_rsa", "aws_access_key_id",
	}
	noiseExtensions = []string{
		"jpg", "jpeg", "png", "gif", "css", "svg", "woff", "ttf", "ico", "mp4", "mp3",
	}
)

// ExtensionPattern compiles a case-insensitive pattern matching ".<ext>" at
// the end of the URL or right before a "?" that starts the query string.
func ExtensionPattern(extensions ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\.(` + alternation(extensions) + `)(?:$|\?)`)
}

// SubstringPattern compiles a case-insensitive pattern matching any of the
// tokens anywhere in the URL.
func SubstringPattern(tokens ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(` + alternation(tokens) + `)`)
}

// alternation quotes each word and joins them with "|".
func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// DefaultRules returns the built-in rule set in precedence order.
// A fresh slice is returned on every call so callers may modify it.
func DefaultRules() []Rule {
	return []Rule{
		{Category: model.CategoryConfiguration, Pattern: ExtensionPattern(configExtensions...)},
		{Category: model.CategoryDatabase, Pattern: ExtensionPattern(databaseExtensions...)},
		{Category: model.CategorySourceCode, Pattern: ExtensionPattern(sourceExtensions...)},
		{Category: model.CategoryDocuments, Pattern: ExtensionPattern(documentExtensions...)},
		{Category: model.CategoryKeysSecrets, Pattern: SubstringPattern(secretTokens...)},
	}
}

// DefaultNoisePattern returns the built-in static asset pattern.
func DefaultNoisePattern() *regexp.Regexp {
	return ExtensionPattern(noiseExtensions...)
}
