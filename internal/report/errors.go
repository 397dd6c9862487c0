package report

import "errors"

var (
	// ErrNoFindings is returned by Save when the report has no findings.
	// No file is created; callers treat it as a no-op.
	ErrNoFindings = errors.New("no findings to report")

	// ErrUnknownFormat is returned for an unsupported report format.
	ErrUnknownFormat = errors.New("unknown report format")
)
