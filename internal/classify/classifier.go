package classify

import (
	"regexp"

	"github.com/nao1215/chronoscan/internal/model"
)

// Classifier assigns archived URLs to categories.
// A Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	// rules are evaluated in order; the first match wins.
	rules []Rule

	// noise selects URLs that are dropped before any rule is evaluated.
	noise *regexp.Regexp
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the rule set. Order determines precedence.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = rules
	}
}

// WithNoisePattern replaces the static asset pattern.
// A nil pattern disables noise suppression.
func WithNoisePattern(noise *regexp.Regexp) Option {
	return func(c *Classifier) {
		c.noise = noise
	}
}

// New creates a Classifier with the default rules and noise pattern.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules: DefaultRules(),
		noise: DefaultNoisePattern(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsNoise reports whether the URL is a static asset.
func (c *Classifier) IsNoise(url string) bool {
	if c.noise == nil {
		return false
	}
	return c.noise.MatchString(url)
}

// Classify returns the category for the URL.
// The second return value is false for noise and for URLs no rule matches.
func (c *Classifier) Classify(url string) (model.Category, bool) {
	if c.IsNoise(url) {
		return "", false
	}

	for _, rule := range c.rules {
		if rule.Match(url) {
			return rule.Category, true
		}
	}

	return "", false
}

// ClassifyAll classifies every URL and returns the findings in input order.
// Unmatched and noise URLs are dropped silently.
func (c *Classifier) ClassifyAll(urls []string) []model.Finding {
	findings := make([]model.Finding, 0)
	for _, url := range urls {
		if category, ok := c.Classify(url); ok {
			findings = append(findings, model.NewFinding(category, url))
		}
	}
	return findings
}

// Categories returns the rule categories in precedence order.
func (c *Classifier) Categories() []model.Category {
	categories := make([]model.Category, len(c.rules))
	for i, rule := range c.rules {
		categories[i] = rule.Category
	}
	return categories
}
