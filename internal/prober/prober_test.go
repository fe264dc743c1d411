package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sivko/redirects-frizar/internal/config"
)

func newTestProber(t *testing.T, cfg config.ProberConfig) *Prober {
	t.Helper()
	p, err := NewProber(cfg, zerolog.Nop())
	require.NoError(t, err)
	return p
}

func TestProbe_HealthyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := newTestProber(t, config.NewDefaultProberConfig())
	result := p.Probe(context.Background(), server.URL)

	assert.True(t, result.HasStatus())
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Empty(t, result.FinalURL)
	assert.Empty(t, result.Error)
}

func TestProbe_ErrorStatusIsStillASuccessfulProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := newTestProber(t, config.NewDefaultProberConfig())
	result := p.Probe(context.Background(), server.URL)

	assert.True(t, result.HasStatus())
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestProbe_RedirectChainSurfacesFinalURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/old":
			http.Redirect(w, r, "/hop", http.StatusMovedPermanently)
		case "/hop":
			http.Redirect(w, r, "/new", http.StatusFound)
		case "/new":
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	p := newTestProber(t, config.NewDefaultProberConfig())
	result := p.Probe(context.Background(), server.URL+"/old")

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, server.URL+"/new", result.FinalURL)
}

func TestProbe_TrailingSlashRedirectIsNotADifferentURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page" {
			http.Redirect(w, r, "/page/", http.StatusMovedPermanently)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := newTestProber(t, config.NewDefaultProberConfig())
	result := p.Probe(context.Background(), server.URL+"/page")

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Empty(t, result.FinalURL, "a redirect that only adds a trailing slash is not a different URL")
}

func TestProbe_TransportFailure(t *testing.T) {
	// A server that is already closed refuses connections
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	p := newTestProber(t, config.NewDefaultProberConfig())
	result := p.Probe(context.Background(), deadURL)

	assert.False(t, result.HasStatus())
	assert.NotEmpty(t, result.Error)
}

func TestProbe_RedirectCapUsesPartialResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Endless redirect loop
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer server.Close()

	cfg := config.NewDefaultProberConfig()
	cfg.MaxRedirects = 3
	p := newTestProber(t, cfg)

	result := p.Probe(context.Background(), server.URL)

	// The client stops at the cap but the last response it saw is used
	assert.True(t, result.HasStatus())
	assert.Equal(t, http.StatusFound, result.StatusCode)
	assert.NotEmpty(t, result.Error)
}

func TestProbe_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	cfg := config.NewDefaultProberConfig()
	cfg.TimeoutSecs = 1
	p := newTestProber(t, cfg)

	start := time.Now()
	result := p.Probe(context.Background(), server.URL)

	assert.False(t, result.HasStatus())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProbe_InvalidURL(t *testing.T) {
	p := newTestProber(t, config.NewDefaultProberConfig())
	result := p.Probe(context.Background(), "http://[::1]:namedport")

	assert.False(t, result.HasStatus())
	assert.NotEmpty(t, result.Error)
}
