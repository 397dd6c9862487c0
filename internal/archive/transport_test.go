package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsValidProxyAddress tests proxy address validation.
func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		want    bool
	}{
		{"127.0.0.1:9050", true},
		{"localhost:9150", true},
		{"[::1]:9050", true},
		{"127.0.0.1", false},
		{":9050", false},
		{"127.0.0.1:0", false},
		{"127.0.0.1:70000", false},
		{"127.0.0.1:abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValidProxyAddress(tt.address))
		})
	}
}

// TestNewHTTPClient tests client construction with and without a proxy.
func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("direct", func(t *testing.T) {
		t.Parallel()

		hc, err := NewHTTPClient(5*time.Second, "")
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, hc.Timeout)
		assert.Nil(t, hc.Transport)
	})

	t.Run("socks5", func(t *testing.T) {
		t.Parallel()

		hc, err := NewHTTPClient(5*time.Second, "127.0.0.1:9050")
		require.NoError(t, err)
		assert.NotNil(t, hc.Transport)
	})

	t.Run("invalid proxy", func(t *testing.T) {
		t.Parallel()

		_, err := NewHTTPClient(5*time.Second, "nope")
		assert.ErrorIs(t, err, ErrInvalidProxyAddress)
	})
}
