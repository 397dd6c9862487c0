// Package target turns user input into the bare host string used to build
// archive queries and to name report files.
package target

import "strings"

// schemes are stripped from the front of the input, in this order.
var schemes = []string{"https://", "http://"}

// Normalize strips a leading http:// or https:// scheme and everything from
// the first "/" onwards.
//
// No host validation is performed: malformed input is passed through on a
// best-effort basis. Surrounding whitespace is trimmed.
func Normalize(raw string) string {
	host := strings.TrimSpace(raw)

	for _, scheme := range schemes {
		host = strings.TrimPrefix(host, scheme)
	}

	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}

	return host
}

// NormalizeAll normalizes each input and drops empty results and duplicates,
// keeping first-seen order.
func NormalizeAll(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		host := Normalize(raw)
		if host == "" {
			continue
		}
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		out = append(out, host)
	}
	return out
}
