package target

import "testing"

// TestNormalize tests scheme and path stripping.
func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare host", "example.com", "example.com"},
		{"https with path", "https://example.com/foo/bar", "example.com"},
		{"http with path", "http://example.com/foo", "example.com"},
		{"trailing slash", "example.com/", "example.com"},
		{"query after path", "https://example.com/a?b=c", "example.com"},
		{"subdomain kept", "http://www.example.com", "www.example.com"},
		{"port kept", "http://example.com:8080/x", "example.com:8080"},
		{"surrounding whitespace", "  example.com  ", "example.com"},
		{"garbage passes through", "not a host", "not a host"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

// TestNormalizeAll tests bulk normalization with de-duplication.
func TestNormalizeAll(t *testing.T) {
	t.Parallel()

	got := NormalizeAll([]string{
		"https://example.com/a",
		"example.com",
		"",
		"http://example.org",
		"   ",
	})

	expected := []string{"example.com", "example.org"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("index %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}
