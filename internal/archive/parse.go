package archive

import (
	"encoding/json"
	"fmt"
)

// ParseRecords decodes a CDX JSON response into the list of original URLs.
//
// The first row is the header and is discarded. Rows with no fields are
// skipped. An empty array yields an empty list; an empty body is not JSON
// and is rejected with ErrMalformedResponse.
func ParseRecords(body []byte) ([]string, error) {
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if len(rows) == 0 {
		return []string{}, nil
	}

	urls := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		urls = append(urls, row[0])
	}

	return urls, nil
}
