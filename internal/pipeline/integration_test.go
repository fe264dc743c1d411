package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sivko/redirects-frizar/internal/config"
	"github.com/Sivko/redirects-frizar/internal/datastore"
	"github.com/Sivko/redirects-frizar/internal/models"
	"github.com/Sivko/redirects-frizar/internal/prober"
)

// TestFullRun drives both sweep phases against a real HTTP server and a
// real SQLite store.
func TestFullRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/product/GOOD":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			http.Redirect(w, r, "/product/SKU200", http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	store, err := datastore.NewStore(filepath.Join(t.TempDir(), "redirects.db"), zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.InsertCodes(models.CategoryProduct, []models.ReferenceCode{{Code: "SKU100"}}))
	require.NoError(t, store.InsertCodes(models.CategoryCatalog, []models.ReferenceCode{{Code: "cat-y"}}))

	urlProber, err := prober.NewProber(config.NewDefaultProberConfig(), zerolog.Nop())
	require.NoError(t, err)

	cfg := config.NewDefaultPipelineConfig()
	cfg.SiteBaseURL = server.URL
	cfg.BatchPauseMs = 0
	pipe := NewPipeline(store, urlProber, cfg, zerolog.Nop())

	urls := []string{
		server.URL + "/product/SKU99",
		server.URL + "/product/GOOD",
		server.URL + "/moved",
		server.URL + "/catalog/cat-x",
	}

	sweep, err := pipe.RunSweep(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, 4, sweep.Probed)
	assert.Equal(t, 0, sweep.Failed)

	// The redirect chain was captured during the sweep
	errorRecords, err := store.QueryByMinStatus(400)
	require.NoError(t, err)
	require.Len(t, errorRecords, 3, "the healthy URL must not appear")
	var movedRecord *models.ErrorRecord
	for i := range errorRecords {
		if errorRecords[i].URL == server.URL+"/moved" {
			movedRecord = &errorRecords[i]
		}
	}
	require.NotNil(t, movedRecord)
	assert.Equal(t, http.StatusNotFound, movedRecord.StatusCode)
	assert.Equal(t, server.URL+"/product/SKU200", movedRecord.FinalURL)

	summary, redirects, err := pipe.RunResolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.ProductMatches)
	assert.Equal(t, 1, summary.CatalogMatches)
	assert.Equal(t, 1, summary.RedirectedTo404)
	assert.Equal(t, 0, summary.Skipped)

	byFrom := make(map[string]models.RedirectRecord)
	for _, record := range redirects {
		byFrom[record.From] = record
	}

	// Direct 404 matched against the product catalog
	direct := byFrom[server.URL+"/product/SKU99"]
	assert.Equal(t, server.URL+"/product/SKU100", direct.To)
	assert.InDelta(t, 50.0, direct.Percent, 1e-9)

	// The redirected URL matched on its final target's code, original From kept
	moved := byFrom[server.URL+"/moved"]
	assert.Equal(t, server.URL+"/product/SKU100", moved.To)
	assert.InDelta(t, (1-1.0/6)*100, moved.Percent, 1e-9)

	// Catalog URL matched against the catalog reference set
	catalog := byFrom[server.URL+"/catalog/cat-x"]
	assert.Equal(t, server.URL+"/catalog/cat-y", catalog.To)

	// All records were persisted
	stored, err := store.QueryRedirectsByMinPercent(0)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
