package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nao1215/chronoscan/internal/log"
)

// DefaultTimeout bounds a single archive request. The CDX index can take
// tens of seconds to stream results for large domains.
const DefaultTimeout = 45 * time.Second

// Client queries the archive index.
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	userAgent  string

	// retries is the number of additional attempts after a timeout or 5xx.
	// Zero means a single attempt.
	retries int

	// backoff is multiplied by the attempt number between retries.
	backoff time.Duration

	reporter log.Reporter
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint overrides the CDX endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetries enables bounded retry on timeouts and 5xx responses.
// Attempt n (starting at 1) waits n*backoff before running.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
		c.backoff = backoff
	}
}

// WithReporter sets the Reporter that receives advisory lines from Fetch.
func WithReporter(r log.Reporter) Option {
	return func(c *Client) {
		c.reporter = r
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.reporter == nil {
		c.reporter = log.NopReporter{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Result is the outcome of Fetch.
type Result struct {
	// URLs are the archived URLs. Never nil.
	URLs []string

	// Failure is the error that degraded the fetch to an empty result, if
	// any. It is informational; a 404 sets ErrNotArchived here.
	Failure error
}

// Fetch retrieves all archived URLs for target.
//
// It never fails: every error is reported once on the Reporter and turned
// into an empty result, so the caller can simply stop when URLs is empty.
func (c *Client) Fetch(ctx context.Context, target string) Result {
	c.reporter.Info(fmt.Sprintf("Querying the archive index for: %s", target))

	urls, err := c.Snapshots(ctx, target)
	if err == nil {
		c.reporter.Success(fmt.Sprintf("Data retrieved successfully. Total unique snapshots: %d", len(urls)))
		return Result{URLs: urls}
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNotArchived):
		c.reporter.Warn("No archived data found for this target.")
	case errors.As(err, &statusErr):
		c.reporter.Critical(fmt.Sprintf("Archive API returned unexpected status: %d", statusErr.Code))
	case errors.Is(err, ErrUpstreamTimeout):
		c.reporter.Critical("Connection timed out. The Archive API is currently overloaded.")
	default:
		c.reporter.Critical(fmt.Sprintf("Fatal error during fetch: %v", err))
	}

	return Result{URLs: []string{}, Failure: err}
}

// Snapshots retrieves all archived URLs for target.
// It returns ErrNotArchived for 404, a *StatusError for other non-200
// codes, ErrUpstreamTimeout on timeout, and ErrMalformedResponse or
// ErrFetch otherwise.
func (c *Client) Snapshots(ctx context.Context, target string) ([]string, error) {
	queryURL, err := QueryURL(c.endpoint, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying archive query",
				"target", target,
				"attempt", attempt+1,
				"error", lastErr,
			)
			if err := sleep(ctx, c.backoff*time.Duration(attempt)); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrFetch, err)
			}
		}

		urls, err := c.query(ctx, queryURL)
		if err == nil {
			c.logger.Debug("archive query complete", "target", target, "records", len(urls))
			return urls, nil
		}

		lastErr = err
		if !retryable(err) {
			break
		}
	}

	return nil, lastErr
}

// query performs a single request and parses the response.
func (c *Client) query(ctx context.Context, queryURL string) ([]string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, ErrNotArchived
	default:
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return ParseRecords(body)
}

// classifyTransportError maps a transport error to ErrUpstreamTimeout or ErrFetch.
func classifyTransportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrFetch, err)
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// retryable reports whether a failed attempt may be retried.
// Timeouts and 5xx are retried; 404, other 4xx, parse errors and
// cancellation are not.
func retryable(err error) bool {
	if errors.Is(err, ErrUpstreamTimeout) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return false
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
