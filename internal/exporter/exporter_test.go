package exporter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sivko/redirects-frizar/internal/config"
	"github.com/Sivko/redirects-frizar/internal/models"
)

func testRecords(n int) []models.RedirectRecord {
	records := make([]models.RedirectRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.RedirectRecord{
			From:    "https://s/product/OLD",
			To:      "https://s/product/NEW",
			Percent: 80,
		})
	}
	return records
}

func TestWriteJSON(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out", "redirects.json")
	cfg := config.NewDefaultExportConfig()
	cfg.OutputPath = outputPath

	exp := NewExporter(cfg, nil, zerolog.Nop())
	require.NoError(t, exp.WriteJSON(testRecords(2)))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var records []models.RedirectRecord
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 2)
	assert.Equal(t, "https://s/product/NEW", records[0].To)
}

func TestDeliver_Chunks(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var chunk []models.RedirectRecord
		require.NoError(t, json.Unmarshal(body, &chunk))
		assert.LessOrEqual(t, len(chunk), 3)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.NewDefaultExportConfig()
	cfg.EndpointURL = server.URL
	cfg.ChunkSize = 3

	exp := NewExporter(cfg, nil, zerolog.Nop())
	result, err := exp.Deliver(context.Background(), testRecords(7))
	require.NoError(t, err)

	assert.Equal(t, 7, result.Delivered)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 3, result.ChunksSent)
	assert.Equal(t, int32(3), requests.Load())
}

func TestDeliver_FailedChunkDoesNotStopTheRest(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.NewDefaultExportConfig()
	cfg.EndpointURL = server.URL
	cfg.ChunkSize = 2

	exp := NewExporter(cfg, nil, zerolog.Nop())
	result, err := exp.Deliver(context.Background(), testRecords(6))
	require.NoError(t, err)

	assert.Equal(t, 4, result.Delivered)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 2, result.ChunksSent)
	assert.Equal(t, 1, result.ChunksFailed)
}

func TestDeliver_NoEndpoint(t *testing.T) {
	exp := NewExporter(config.NewDefaultExportConfig(), nil, zerolog.Nop())
	_, err := exp.Deliver(context.Background(), testRecords(1))
	assert.Error(t, err)
}
