package archive

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient creates the HTTP client used for archive queries.
//
// When proxyAddress is empty the default transport is used. Otherwise all
// connections go through the SOCKS5 proxy at proxyAddress ("host:port"),
// for example a local Tor daemon at 127.0.0.1:9050.
//
// The timeout bounds the whole request including reading the body.
func NewHTTPClient(timeout time.Duration, proxyAddress string) (*http.Client, error) {
	if proxyAddress == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	if !IsValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	// Tor's SOCKS port does not require authentication.
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
		MaxIdleConns:    2,
		IdleConnTimeout: 30 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// IsValidProxyAddress checks if the address is in valid "host:port" format
// with a port between 1 and 65535.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}

	return n >= 1 && n <= 65535
}
