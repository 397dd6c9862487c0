// Package log provides the logging and user-facing reporting used by chronoscan.
//
// Two separate channels exist:
//   - Diagnostics go through log/slog. NewSecureLogger wraps the handler in a
//     SecureHandler that masks sensitive attributes and redacts credential
//     values embedded in URL query strings. Archived URLs often carry
//     token=, password= or api_key= parameters, and diagnostic logs are the
//     kind of output that gets pasted into issues.
//   - Advisory and progress lines for the operator go through the Reporter
//     interface. ConsoleReporter renders them with color; MemoryReporter
//     records them for tests; NopReporter discards them.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	reporter := log.NewConsoleReporter(os.Stdout, log.WithNoColor(noColor))
//	reporter.Warn("No archived data found for this target.")
package log
