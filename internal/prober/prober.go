package prober

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sivko/redirects-frizar/internal/config"
	"github.com/Sivko/redirects-frizar/internal/models"
	"github.com/Sivko/redirects-frizar/internal/urlhandler"
)

// Prober issues HTTP probes to check URL liveness and capture redirect targets.
type Prober struct {
	client *http.Client
	config ClientConfig
	logger zerolog.Logger
}

// NewProber creates a Prober from the prober configuration section.
func NewProber(cfg config.ProberConfig, logger zerolog.Logger) (*Prober, error) {
	clientConfig := DefaultClientConfig()
	if cfg.TimeoutSecs > 0 {
		clientConfig.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}
	if cfg.MaxRedirects > 0 {
		clientConfig.MaxRedirects = cfg.MaxRedirects
	}
	if cfg.UserAgent != "" {
		clientConfig.UserAgent = cfg.UserAgent
	}
	if cfg.InsecureSkipVerify {
		clientConfig.InsecureSkipVerify = true
	}
	clientConfig.Proxy = cfg.Proxy

	client, err := NewHTTPClient(clientConfig, logger)
	if err != nil {
		return nil, err
	}

	return &Prober{
		client: client,
		config: clientConfig,
		logger: logger.With().Str("component", "Prober").Logger(),
	}, nil
}

// Client exposes the underlying HTTP client so other outbound components
// can share its transport.
func (p *Prober) Client() *http.Client {
	return p.client
}

// Probe issues a single GET request for the URL, following redirects up to
// the configured depth, and classifies the outcome.
//
// Every HTTP response is a successful probe regardless of status code; only
// transport-level failures (timeout, DNS, connection refused) leave the
// status at zero. When the redirect cap is hit, the client still hands back
// the last response it received, and that partial status/URL is used.
// FinalURL is surfaced only when the effective post-redirect URL differs
// from the input after trailing-slash normalization.
func (p *Prober) Probe(ctx context.Context, targetURL string) models.ProbeResult {
	result := models.ProbeResult{InputURL: targetURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		result.Error = err.Error()
		p.logger.Debug().Err(err).Str("url", targetURL).Msg("Failed to build probe request")
		return result
	}
	if p.config.UserAgent != "" {
		req.Header.Set("User-Agent", p.config.UserAgent)
	}

	resp, err := p.client.Do(req)
	if resp != nil {
		defer func() {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))
			_ = resp.Body.Close()
		}()
	}

	if err != nil && resp == nil {
		// No HTTP response at all
		result.Error = err.Error()
		p.logger.Debug().Err(err).Str("url", targetURL).Msg("Probe transport failure")
		return result
	}

	if err != nil {
		// Partial response, e.g. the redirect cap stopped the chain
		result.Error = err.Error()
	}

	result.StatusCode = resp.StatusCode

	effectiveURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}
	if !urlhandler.SameURL(effectiveURL, targetURL) {
		result.FinalURL = effectiveURL
	}

	p.logger.Debug().
		Str("url", targetURL).
		Int("status", result.StatusCode).
		Str("final_url", result.FinalURL).
		Msg("Probe completed")

	return result
}
