package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Sivko/redirects-frizar/internal/config"
	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
	"github.com/Sivko/redirects-frizar/internal/models"
)

// DeliveryResult aggregates counters for one outbound delivery run.
type DeliveryResult struct {
	Delivered    int `json:"delivered"`
	Failed       int `json:"failed"`
	ChunksSent   int `json:"chunks_sent"`
	ChunksFailed int `json:"chunks_failed"`
}

// Exporter writes final redirect records to a JSON file and optionally
// delivers them to a remote endpoint in batches.
type Exporter struct {
	client *http.Client
	config config.ExportConfig
	logger zerolog.Logger
}

// NewExporter creates an Exporter. The HTTP client is shared with the rest
// of the application; pass nil to use http.DefaultClient.
func NewExporter(cfg config.ExportConfig, client *http.Client, logger zerolog.Logger) *Exporter {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = config.DefaultExportChunkSize
	}
	return &Exporter{
		client: client,
		config: cfg,
		logger: logger.With().Str("component", "Exporter").Logger(),
	}
}

// WriteJSON dumps the redirect records to the configured output path as an
// indented JSON array.
func (e *Exporter) WriteJSON(records []models.RedirectRecord) error {
	if e.config.OutputPath == "" {
		return errorwrapper.NewError("no output path configured")
	}

	if dir := filepath.Dir(e.config.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errorwrapper.WrapError(err, "failed to create output directory")
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errorwrapper.WrapError(err, "failed to marshal redirect records")
	}

	if err := os.WriteFile(e.config.OutputPath, data, 0644); err != nil {
		return errorwrapper.WrapError(err, "failed to write '"+e.config.OutputPath+"'")
	}

	e.logger.Info().Str("path", e.config.OutputPath).Int("count", len(records)).Msg("Wrote redirect export")
	return nil
}

// Deliver POSTs the redirect records to the configured endpoint as JSON, in
// chunks. A failed chunk is logged and counted but does not stop delivery
// of the remaining chunks.
func (e *Exporter) Deliver(ctx context.Context, records []models.RedirectRecord) (DeliveryResult, error) {
	var result DeliveryResult

	if e.config.EndpointURL == "" {
		return result, errorwrapper.NewError("no delivery endpoint configured")
	}

	for start := 0; start < len(records); start += e.config.ChunkSize {
		end := start + e.config.ChunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		if err := e.deliverChunk(ctx, chunk); err != nil {
			result.ChunksFailed++
			result.Failed += len(chunk)
			e.logger.Error().Err(err).
				Int("chunk_start", start).
				Int("chunk_size", len(chunk)).
				Msg("Chunk delivery failed")
			continue
		}
		result.ChunksSent++
		result.Delivered += len(chunk)
	}

	e.logger.Info().
		Int("delivered", result.Delivered).
		Int("failed", result.Failed).
		Int("chunks_sent", result.ChunksSent).
		Int("chunks_failed", result.ChunksFailed).
		Msg("Delivery completed")

	return result, nil
}

// deliverChunk sends one chunk and checks for a 2xx response.
func (e *Exporter) deliverChunk(ctx context.Context, chunk []models.RedirectRecord) error {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to marshal chunk")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.EndpointURL, bytes.NewReader(payload))
	if err != nil {
		return errorwrapper.WrapError(err, "failed to build delivery request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return errorwrapper.NewNetworkError(e.config.EndpointURL, "delivery request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, "delivery rejected", e.config.EndpointURL)
	}
	return nil
}
