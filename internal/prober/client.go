package prober

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
)

// ClientConfig holds configuration for the probing HTTP client
type ClientConfig struct {
	Timeout             time.Duration // Request timeout
	MaxRedirects        int           // Maximum number of redirects to follow
	UserAgent           string        // User-Agent header for all requests
	InsecureSkipVerify  bool          // Skip TLS verification
	Proxy               string        // Proxy URL (HTTP/SOCKS)
	MaxIdleConns        int           // Maximum idle connections
	MaxIdleConnsPerHost int           // Maximum idle connections per host
	IdleConnTimeout     time.Duration // Idle connection timeout
	TLSHandshakeTimeout time.Duration // TLS handshake timeout
	DialTimeout         time.Duration // Connection dial timeout
	KeepAlive           time.Duration // Keep-alive duration
	EnableHTTP2         bool          // Enable HTTP/2 support
}

// DefaultClientConfig returns the default probing client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             10 * time.Second,
		MaxRedirects:        10,
		InsecureSkipVerify:  true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialTimeout:         10 * time.Second,
		KeepAlive:           30 * time.Second,
		EnableHTTP2:         true,
	}
}

// NewHTTPClient creates an *http.Client for probing with the given configuration
func NewHTTPClient(config ClientConfig, logger zerolog.Logger) (*http.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", config.Proxy).Msg("Probing client configured with proxy")
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	// Cap the redirect chain depth. When the cap is hit the client returns
	// the last response it saw alongside the error, which the prober uses
	// as a partial result.
	if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Int("max_redirects", config.MaxRedirects).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("Probing HTTP client created")

	return client, nil
}
