package archive

import (
	"fmt"
	"net/url"
)

// DefaultEndpoint is the public Wayback Machine CDX search endpoint.
const DefaultEndpoint = "http://web.archive.org/cdx/search/cdx"

// QueryURL builds the CDX query URL for target against endpoint.
// The target is embedded as-is; callers normalize it first.
func QueryURL(endpoint, target string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid archive endpoint %q: %w", endpoint, err)
	}

	q := u.Query()
	q.Set("url", "*."+target+"/*")
	q.Set("output", "json")
	q.Set("fl", "original")
	q.Set("collapse", "urlkey")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
