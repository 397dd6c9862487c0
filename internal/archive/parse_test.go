package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRecords tests decoding of CDX JSON bodies.
func TestParseRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "header only",
			body: `[["original"]]`,
			want: []string{},
		},
		{
			name: "header and rows",
			body: `[["original"],["http://example.com/.env"],["http://example.com/a.pdf"]]`,
			want: []string{"http://example.com/.env", "http://example.com/a.pdf"},
		},
		{
			name: "empty array",
			body: `[]`,
			want: []string{},
		},
		{
			name: "empty rows are skipped",
			body: `[["original"],[],["http://example.com/x.sql"]]`,
			want: []string{"http://example.com/x.sql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRecords([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseRecordsMalformed tests that non-array bodies are rejected.
func TestParseRecordsMalformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"a":1}`, `not json`, `[1,2,3]`, ``, "  \n"} {
		_, err := ParseRecords([]byte(body))
		require.Error(t, err, body)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	}
}
