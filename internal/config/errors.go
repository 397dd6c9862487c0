package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate so callers can use errors.Is.
var (
	// ErrNoTarget is returned when neither --domain nor --list provides a target.
	ErrNoTarget = errors.New("no target specified: provide --domain or use --list")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry count is negative.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidRetryBackoff is returned when the retry backoff is negative.
	ErrInvalidRetryBackoff = errors.New("invalid retry backoff: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrUnknownFormat is returned when the report format is not one of
	// text, json, markdown or xlsx.
	ErrUnknownFormat = errors.New("unknown report format: must be text, json, markdown or xlsx")

	// ErrOutputWithBatch is returned when --output is combined with --list.
	// Each batch target writes its own default-named report.
	ErrOutputWithBatch = errors.New("--output cannot be used with --list")

	// ErrInvalidProxyAddress is returned when the proxy is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

	// ErrEmptyEndpoint is returned when the archive endpoint is empty.
	ErrEmptyEndpoint = errors.New("archive endpoint must not be empty")
)
