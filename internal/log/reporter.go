package log

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/nao1215/chronoscan/internal/model"
)

// Reporter receives the operator-facing progress and advisory lines of a
// scan. Implementations must be safe for concurrent use, since batch scans
// share one Reporter across goroutines.
type Reporter interface {
	// Info reports progress.
	Info(msg string)

	// Success reports a completed phase.
	Success(msg string)

	// Warn reports a non-fatal condition such as "no archived data".
	Warn(msg string)

	// Critical reports a failure that ended a phase early.
	Critical(msg string)

	// Finding reports a single classified URL as it is discovered.
	Finding(f model.Finding)
}

// ConsoleReporter writes colored, prefixed lines to an io.Writer.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer

	info      *color.Color
	success   *color.Color
	warn      *color.Color
	critical  *color.Color
	sensitive *color.Color
}

// ConsoleOption configures a ConsoleReporter.
type ConsoleOption func(*ConsoleReporter)

// WithNoColor disables ANSI colors.
func WithNoColor(noColor bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		if !noColor {
			return
		}
		for _, c := range r.colors() {
			c.DisableColor()
		}
	}
}

// NewConsoleReporter creates a ConsoleReporter writing to out.
func NewConsoleReporter(out io.Writer, opts ...ConsoleOption) *ConsoleReporter {
	r := &ConsoleReporter{
		out:       out,
		info:      color.New(color.FgCyan),
		success:   color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		critical:  color.New(color.FgRed, color.Bold),
		sensitive: color.New(color.FgYellow),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// colors returns every color used by the reporter.
func (r *ConsoleReporter) colors() []*color.Color {
	return []*color.Color{r.info, r.success, r.warn, r.critical, r.sensitive}
}

// Info implements Reporter.
func (r *ConsoleReporter) Info(msg string) {
	r.line(r.info, "[*]", msg)
}

// Success implements Reporter.
func (r *ConsoleReporter) Success(msg string) {
	r.line(r.success, "[+]", msg)
}

// Warn implements Reporter.
func (r *ConsoleReporter) Warn(msg string) {
	r.line(r.warn, "[!]", msg)
}

// Critical implements Reporter.
func (r *ConsoleReporter) Critical(msg string) {
	r.line(r.critical, "[-]", msg)
}

// Finding implements Reporter.
// Only critical and sensitive findings are echoed live; informational ones
// appear in the report only.
func (r *ConsoleReporter) Finding(f model.Finding) {
	var c *color.Color
	switch f.Severity {
	case model.SeverityCritical:
		c = r.critical
	case model.SeveritySensitive:
		c = r.sensitive
	default:
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = c.Fprintf(r.out, "    >> [%s] %s: %s\n", //nolint:errcheck // console output is best effort
		f.Severity, strings.ToUpper(f.Category.String()), f.URL)
}

// line writes one prefixed line.
func (r *ConsoleReporter) line(c *color.Color, prefix, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = c.Fprintf(r.out, "%s %s\n", prefix, msg) //nolint:errcheck // console output is best effort
}

// NopReporter discards everything.
type NopReporter struct{}

// Info implements Reporter.
func (NopReporter) Info(string) {}

// Success implements Reporter.
func (NopReporter) Success(string) {}

// Warn implements Reporter.
func (NopReporter) Warn(string) {}

// Critical implements Reporter.
func (NopReporter) Critical(string) {}

// Finding implements Reporter.
func (NopReporter) Finding(model.Finding) {}

// Level identifies the kind of a recorded message.
type Level string

// Message levels recorded by MemoryReporter.
const (
	LevelInfo     Level = "info"
	LevelSuccess  Level = "success"
	LevelWarn     Level = "warn"
	LevelCritical Level = "critical"
)

// Message is one line recorded by MemoryReporter.
type Message struct {
	Level Level
	Text  string
}

// MemoryReporter records everything it receives.
type MemoryReporter struct {
	mu       sync.Mutex
	messages []Message
	findings []model.Finding
}

// NewMemoryReporter creates an empty MemoryReporter.
func NewMemoryReporter() *MemoryReporter {
	return &MemoryReporter{}
}

// Info implements Reporter.
func (r *MemoryReporter) Info(msg string) { r.add(LevelInfo, msg) }

// Success implements Reporter.
func (r *MemoryReporter) Success(msg string) { r.add(LevelSuccess, msg) }

// Warn implements Reporter.
func (r *MemoryReporter) Warn(msg string) { r.add(LevelWarn, msg) }

// Critical implements Reporter.
func (r *MemoryReporter) Critical(msg string) { r.add(LevelCritical, msg) }

// Finding implements Reporter.
func (r *MemoryReporter) Finding(f model.Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = append(r.findings, f)
}

func (r *MemoryReporter) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: msg})
}

// Messages returns a copy of the recorded messages.
func (r *MemoryReporter) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// MessagesAt returns the text of recorded messages at the given level.
func (r *MemoryReporter) MessagesAt(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.messages {
		if m.Level == level {
			out = append(out, m.Text)
		}
	}
	return out
}

// Findings returns a copy of the recorded findings.
func (r *MemoryReporter) Findings() []model.Finding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Finding(nil), r.findings...)
}

// String renders the recorded messages one per line, for test failure output.
func (r *MemoryReporter) String() string {
	var sb strings.Builder
	for _, m := range r.Messages() {
		sb.WriteString(fmt.Sprintf("%s: %s\n", m.Level, m.Text))
	}
	return sb.String()
}
