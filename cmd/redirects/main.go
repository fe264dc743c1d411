package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Sivko/redirects-frizar/internal/config"
	"github.com/Sivko/redirects-frizar/internal/datastore"
	"github.com/Sivko/redirects-frizar/internal/exporter"
	"github.com/Sivko/redirects-frizar/internal/importer"
	"github.com/Sivko/redirects-frizar/internal/logger"
	"github.com/Sivko/redirects-frizar/internal/models"
	"github.com/Sivko/redirects-frizar/internal/pipeline"
	"github.com/Sivko/redirects-frizar/internal/prober"
)

func main() {
	fmt.Println("redirects-frizar starting...")

	// Flags
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")

	urlsFile := flag.String("urls", "", "Path to a CSV file with candidate failing URLs (first column).")
	urlsFileAlias := flag.String("u", "", "Alias for -urls")

	productsFile := flag.String("products", "", "Path to a CSV file with valid product codes (first column).")
	productsFileAlias := flag.String("p", "", "Alias for -products")

	catalogFile := flag.String("catalog", "", "Path to a CSV file with valid catalog codes (first column).")
	catalogFileAlias := flag.String("k", "", "Alias for -catalog")

	modeFlag := flag.String("mode", "full", "Mode to run: sweep, resolve, full or export")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	minPercent := flag.Float64("min-percent", -1, "Override the minimum confidence percent for export")
	flag.Parse()

	// Consolidate alias flags
	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}
	if *urlsFile == "" && *urlsFileAlias != "" {
		*urlsFile = *urlsFileAlias
	}
	if *productsFile == "" && *productsFileAlias != "" {
		*productsFile = *productsFileAlias
	}
	if *catalogFile == "" && *catalogFileAlias != "" {
		*catalogFile = *catalogFileAlias
	}
	if *modeFlagAlias != "" {
		*modeFlag = *modeFlagAlias
	}

	switch *modeFlag {
	case "sweep", "resolve", "full", "export":
	default:
		log.Fatalf("[FATAL] unknown mode '%s' (want sweep, resolve, full or export)", *modeFlag)
	}

	gCfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		log.Fatalf("[FATAL] could not load config using path '%s': %v", *configFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] could not initialize logger: %v", err)
	}

	if *minPercent >= 0 {
		gCfg.MatcherConfig.MinExportPercent = *minPercent
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, gCfg, zLogger, *modeFlag, *urlsFile, *productsFile, *catalogFile); err != nil {
		zLogger.Fatal().Err(err).Msg("Run failed")
	}
}

func run(ctx context.Context, gCfg *config.GlobalConfig, zLogger zerolog.Logger, mode, urlsFile, productsFile, catalogFile string) error {
	store, err := datastore.NewStore(gCfg.StoreConfig.SQLiteDBPath, zLogger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	urlProber, err := prober.NewProber(gCfg.ProberConfig, zLogger)
	if err != nil {
		return err
	}

	im := importer.NewImporter(zLogger)

	var urls []string
	if urlsFile != "" {
		if urls, err = im.LoadURLs(urlsFile); err != nil {
			return err
		}
	}
	if productsFile != "" {
		codes, err := im.LoadCodes(productsFile)
		if err != nil {
			return err
		}
		if err := store.InsertCodes(models.CategoryProduct, codes); err != nil {
			return err
		}
	}
	if catalogFile != "" {
		codes, err := im.LoadCodes(catalogFile)
		if err != nil {
			return err
		}
		if err := store.InsertCodes(models.CategoryCatalog, codes); err != nil {
			return err
		}
	}

	pipe := pipeline.NewPipeline(store, urlProber, gCfg.PipelineConfig, zLogger)

	if mode == "sweep" || mode == "full" {
		if _, err := pipe.RunSweep(ctx, urls); err != nil {
			return err
		}
	}

	if mode == "resolve" || mode == "full" {
		summary, _, err := pipe.RunResolve(ctx)
		if err != nil {
			return err
		}
		zLogger.Info().
			Int("processed", summary.Processed).
			Int("matches", summary.Matches()).
			Int("skipped", summary.Skipped).
			Msg("Resolution finished")
	}

	if mode == "export" || mode == "full" {
		return export(ctx, gCfg, store, urlProber, zLogger)
	}

	return nil
}

// export dumps redirects at or above the confidence threshold and, when an
// endpoint is configured, delivers them outbound.
func export(ctx context.Context, gCfg *config.GlobalConfig, store *datastore.Store, urlProber *prober.Prober, zLogger zerolog.Logger) error {
	records, err := store.QueryRedirectsByMinPercent(gCfg.MatcherConfig.MinExportPercent)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		zLogger.Info().Msg("No redirect records above export threshold")
		return nil
	}

	exp := exporter.NewExporter(gCfg.ExportConfig, urlProber.Client(), zLogger)

	if gCfg.ExportConfig.OutputPath != "" {
		if err := exp.WriteJSON(records); err != nil {
			return err
		}
	}
	if gCfg.ExportConfig.EndpointURL != "" {
		if _, err := exp.Deliver(ctx, records); err != nil {
			return err
		}
	}
	return nil
}
