package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sivko/redirects-frizar/internal/classifier"
	"github.com/Sivko/redirects-frizar/internal/config"
	"github.com/Sivko/redirects-frizar/internal/models"
	"github.com/Sivko/redirects-frizar/internal/similarity"
	"github.com/Sivko/redirects-frizar/internal/urlhandler"
)

// StatusStore is the persistence contract the pipeline depends on. The
// concrete implementation lives in internal/datastore; the pipeline takes
// the handle explicitly so tests can substitute their own.
type StatusStore interface {
	UpsertURL(url string) error
	UpdateStatus(url string, statusCode int, finalURL string) error
	QueryByMinStatus(minStatus int) ([]models.ErrorRecord, error)
	QueryAllCodes(category models.Category) ([]models.ReferenceCode, error)
	InsertRedirects(records []models.RedirectRecord) error
}

// URLProber issues a single status probe.
type URLProber interface {
	Probe(ctx context.Context, url string) models.ProbeResult
}

// SweepSummary aggregates counters for one status sweep.
type SweepSummary struct {
	Probed  int `json:"probed"`
	Failed  int `json:"failed"`
	Batches int `json:"batches"`
}

// Pipeline orchestrates the status sweep and the resolution sweep.
type Pipeline struct {
	store  StatusStore
	prober URLProber
	config config.PipelineConfig
	logger zerolog.Logger
}

// NewPipeline creates a pipeline with explicit store and prober handles.
func NewPipeline(store StatusStore, prober URLProber, cfg config.PipelineConfig, logger zerolog.Logger) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultPipelineBatchSize
	}
	if cfg.ErrorStatusMin <= 0 {
		cfg.ErrorStatusMin = config.DefaultPipelineErrorStatusMin
	}
	return &Pipeline{
		store:  store,
		prober: prober,
		config: cfg,
		logger: logger.With().Str("component", "Pipeline").Logger(),
	}
}

// RunSweep probes every URL and persists the observed status and final URL.
//
// URLs are processed in fixed-size batches: all probes within a batch run
// concurrently, the next batch starts only after the whole batch has
// drained, and a short pause between batches throttles the target server.
// URLs whose probe produced no HTTP response are counted as failures and
// not retried. Store failures abort the sweep.
func (p *Pipeline) RunSweep(ctx context.Context, urls []string) (SweepSummary, error) {
	var summary SweepSummary

	batchPause := time.Duration(p.config.BatchPauseMs) * time.Millisecond

	for start := 0; start < len(urls); start += p.config.BatchSize {
		end := start + p.config.BatchSize
		if end > len(urls) {
			end = len(urls)
		}
		batch := urls[start:end]
		summary.Batches++

		p.logger.Info().
			Int("batch_index", summary.Batches-1).
			Int("batch_size", len(batch)).
			Int("total", len(urls)).
			Msg("Probing batch")

		results := p.probeBatch(ctx, batch)

		for _, result := range results {
			if !result.HasStatus() {
				summary.Failed++
				p.logger.Warn().Str("url", result.InputURL).Str("error", result.Error).Msg("Probe produced no response")
				continue
			}
			summary.Probed++
			if err := p.store.UpsertURL(result.InputURL); err != nil {
				return summary, err
			}
			if err := p.store.UpdateStatus(result.InputURL, result.StatusCode, result.FinalURL); err != nil {
				return summary, err
			}
		}

		if end < len(urls) && batchPause > 0 {
			time.Sleep(batchPause)
		}
	}

	p.logger.Info().
		Int("probed", summary.Probed).
		Int("failed", summary.Failed).
		Int("batches", summary.Batches).
		Msg("Status sweep completed")

	return summary, nil
}

// probeBatch runs all probes of one batch concurrently and joins on the
// whole batch before returning. Results keep the batch input order, so the
// persisted state does not depend on completion order.
func (p *Pipeline) probeBatch(ctx context.Context, batch []string) []models.ProbeResult {
	results := make([]models.ProbeResult, len(batch))
	var wg sync.WaitGroup

	for i, url := range batch {
		wg.Add(1)
		go func(index int, targetURL string) {
			defer wg.Done()
			results[index] = p.prober.Probe(ctx, targetURL)
		}(i, url)
	}

	wg.Wait()
	return results
}

// RunResolve drives the resolution sweep over every persisted URL whose
// status is at or above the error threshold, producing redirect records.
//
// When a record carries a final URL from an observed redirect chain, that
// URL is re-probed once: a 404 means the redirect target itself is dead and
// its code becomes the matching signal (with the updated status persisted);
// a healthy status (<400) means the record needs no resolution and is
// skipped; anything else, including a failed re-probe, falls back to the
// final URL's code as the best available signal. The emitted record always
// keeps the original failing URL as From, never the intermediate one.
func (p *Pipeline) RunResolve(ctx context.Context) (models.ResolveSummary, []models.RedirectRecord, error) {
	var summary models.ResolveSummary

	errorRecords, err := p.store.QueryByMinStatus(p.config.ErrorStatusMin)
	if err != nil {
		return summary, nil, err
	}

	productCodes, err := p.store.QueryAllCodes(models.CategoryProduct)
	if err != nil {
		return summary, nil, err
	}
	catalogCodes, err := p.store.QueryAllCodes(models.CategoryCatalog)
	if err != nil {
		return summary, nil, err
	}

	p.logger.Info().
		Int("error_records", len(errorRecords)).
		Int("product_codes", len(productCodes)).
		Int("catalog_codes", len(catalogCodes)).
		Msg("Starting resolution sweep")

	var redirects []models.RedirectRecord

	for _, record := range errorRecords {
		summary.Processed++

		matchURL, skip, err := p.chooseMatchURL(ctx, record, &summary)
		if err != nil {
			return summary, redirects, err
		}
		if skip {
			continue
		}

		classification, err := classifier.Classify(matchURL)
		if err != nil {
			summary.DecodeFailures++
			summary.Skipped++
			p.logger.Warn().Err(err).Str("url", matchURL).Msg("URL decode failed, skipping")
			continue
		}
		if classification.Category == "" || classification.Code == "" {
			summary.NoCategory++
			summary.Skipped++
			p.logger.Debug().Str("url", matchURL).Msg("No category or code, skipping")
			continue
		}

		candidates := productCodes
		if classification.Category == models.CategoryCatalog {
			candidates = catalogCodes
		}

		best := similarity.BestMatch(classification.Code, candidates)
		if best == nil {
			summary.NoMatch++
			summary.Skipped++
			p.logger.Debug().Str("code", classification.Code).Str("url", matchURL).Msg("No similarity match, skipping")
			continue
		}

		redirect := models.RedirectRecord{
			From:    record.URL,
			To:      urlhandler.JoinPath(p.config.SiteBaseURL, string(classification.Category), best.Code),
			Percent: best.Percent,
		}
		redirects = append(redirects, redirect)

		if classification.Category == models.CategoryProduct {
			summary.ProductMatches++
		} else {
			summary.CatalogMatches++
		}

		p.logger.Info().
			Str("from", redirect.From).
			Str("to", redirect.To).
			Float64("percent", redirect.Percent).
			Msg("Resolved redirect")
	}

	if err := p.store.InsertRedirects(redirects); err != nil {
		return summary, redirects, err
	}

	p.logger.Info().
		Int("processed", summary.Processed).
		Int("product_matches", summary.ProductMatches).
		Int("catalog_matches", summary.CatalogMatches).
		Int("redirected_to_404", summary.RedirectedTo404).
		Int("skipped", summary.Skipped).
		Msg("Resolution sweep completed")

	return summary, redirects, nil
}

// chooseMatchURL decides which URL carries the code used for matching.
// Records without an observed redirect chain match on their own URL. A
// store failure while persisting a re-probed 404 aborts the sweep; skip
// reports that the record needs no redirect at all.
func (p *Pipeline) chooseMatchURL(ctx context.Context, record models.ErrorRecord, summary *models.ResolveSummary) (matchURL string, skip bool, err error) {
	if record.FinalURL == "" {
		return record.URL, false, nil
	}

	reprobe := p.prober.Probe(ctx, record.FinalURL)

	switch {
	case reprobe.StatusCode == 404:
		// The redirect target itself is dead; its code is the matching signal.
		summary.RedirectedTo404++
		if err := p.store.UpsertURL(record.FinalURL); err != nil {
			return "", false, err
		}
		if err := p.store.UpdateStatus(record.FinalURL, reprobe.StatusCode, reprobe.FinalURL); err != nil {
			return "", false, err
		}
		return record.FinalURL, false, nil

	case reprobe.HasStatus() && reprobe.StatusCode < 400:
		// The redirect target is healthy; nothing to resolve.
		summary.Healthy++
		summary.Skipped++
		p.logger.Debug().
			Str("url", record.URL).
			Str("final_url", record.FinalURL).
			Int("status", reprobe.StatusCode).
			Msg("Redirect target is healthy, skipping")
		return "", true, nil

	default:
		// Some other error status, or no response at all: the intermediate
		// target is still broken and its code is the best available signal.
		return record.FinalURL, false, nil
	}
}
