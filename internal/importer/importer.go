package importer

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
	"github.com/Sivko/redirects-frizar/internal/models"
	"github.com/Sivko/redirects-frizar/internal/urlhandler"
)

// Importer loads failing URL lists and reference code catalogs from CSV
// files exported by the shop backend.
type Importer struct {
	logger zerolog.Logger
}

// NewImporter creates a new Importer.
func NewImporter(logger zerolog.Logger) *Importer {
	return &Importer{
		logger: logger.With().Str("component", "Importer").Logger(),
	}
}

// LoadURLs reads candidate failing URLs from the first column of a CSV
// file. A leading "url" header row is skipped; blank rows are ignored;
// entries missing a scheme get https:// prepended.
func (im *Importer) LoadURLs(path string) ([]string, error) {
	rows, err := im.readCSV(path)
	if err != nil {
		return nil, err
	}

	var urls []string
	for i, row := range rows {
		value := firstColumn(row)
		if value == "" {
			continue
		}
		if i == 0 && strings.EqualFold(value, "url") {
			// Header row
			continue
		}
		normalized, err := urlhandler.NormalizeURL(value)
		if err != nil {
			im.logger.Warn().Err(err).Str("value", value).Msg("Skipping unparseable URL entry")
			continue
		}
		urls = append(urls, normalized)
	}

	im.logger.Info().Str("path", path).Int("count", len(urls)).Msg("Loaded candidate URLs")
	return urls, nil
}

// LoadCodes reads reference codes from the first column of a CSV file,
// deduplicated by value with first-seen order preserved.
func (im *Importer) LoadCodes(path string) ([]models.ReferenceCode, error) {
	rows, err := im.readCSV(path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var codes []models.ReferenceCode
	for _, row := range rows {
		value := firstColumn(row)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		codes = append(codes, models.ReferenceCode{Code: value})
	}

	im.logger.Info().Str("path", path).Int("count", len(codes)).Msg("Loaded reference codes")
	return codes, nil
}

// readCSV reads all rows of a CSV file. Records with a variable number of
// fields are accepted, so plain one-value-per-line files work too.
func (im *Importer) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to open '"+path+"'")
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse CSV '"+path+"'")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func firstColumn(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSpace(row[0])
}
