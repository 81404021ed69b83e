package httputil

import (
	"crypto/tls"
	"net/http"
	"time"
)

// Options configures outbound HTTP client creation
type Options struct {
	// Timeout is the request timeout duration (0 means no timeout)
	Timeout time.Duration
	// SkipSSLVerify disables SSL certificate verification (use with caution)
	SkipSSLVerify bool
}

// NewClient creates an HTTP client with the specified options
func NewClient(opts Options) *http.Client {
	client := &http.Client{
		Timeout: opts.Timeout,
	}

	// Only configure a custom transport when verification must be skipped
	if opts.SkipSSLVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}

	return client
}
