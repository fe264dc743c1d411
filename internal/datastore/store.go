package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
	"github.com/Sivko/redirects-frizar/internal/models"
)

// Store wraps the SQL database connection and provides methods for the URL
// status table, the two reference code catalogs and the redirect results.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore initializes a new Store and ensures the schema is set up.
func NewStore(dataSourceName string, logger zerolog.Logger) (*Store, error) {
	logger = logger.With().Str("component", "Store").Logger()
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create database directory")
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		logger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	store := &Store{
		db:     dbInstance,
		logger: logger,
	}

	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		logger.Error().Err(err).Msg("Failed to initialize database schema")
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("path", dataSourceName).Msg("Database initialized and schema verified")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the tables if they don't already exist.
func (s *Store) InitSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS urls (
			url TEXT PRIMARY KEY,
			status_code INTEGER,
			final_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS product_codes (
			code TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_codes (
			code TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS redirects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			from_url TEXT NOT NULL,
			to_url TEXT NOT NULL,
			percent REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			s.logger.Error().Err(err).Msg("Failed to initialize schema")
			return errorwrapper.NewStoreError("init schema", err)
		}
	}
	return nil
}

// codesTable maps a category to its table name. The whitelist keeps table
// names out of query interpolation for anything but the two known catalogs.
func codesTable(category models.Category) (string, error) {
	switch category {
	case models.CategoryProduct:
		return "product_codes", nil
	case models.CategoryCatalog:
		return "catalog_codes", nil
	default:
		return "", errorwrapper.NewError("unknown category '%s'", category)
	}
}

// UpsertURL ensures a row exists for the URL, leaving existing status untouched.
func (s *Store) UpsertURL(url string) error {
	query := `INSERT INTO urls (url) VALUES (?) ON CONFLICT(url) DO NOTHING`
	if _, err := s.db.Exec(query, url); err != nil {
		s.logger.Error().Err(err).Str("url", url).Msg("Failed to upsert URL")
		return errorwrapper.NewStoreError("upsert url", err)
	}
	return nil
}

// UpdateStatus records the probed status and optional final URL for a URL.
// An empty finalURL clears the column.
func (s *Store) UpdateStatus(url string, statusCode int, finalURL string) error {
	query := `INSERT INTO urls (url, status_code, final_url) VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET status_code = excluded.status_code, final_url = excluded.final_url`
	finalURLValue := sql.NullString{String: finalURL, Valid: finalURL != ""}
	if _, err := s.db.Exec(query, url, statusCode, finalURLValue); err != nil {
		s.logger.Error().Err(err).Str("url", url).Msg("Failed to update URL status")
		return errorwrapper.NewStoreError("update status", err)
	}
	return nil
}

// QueryByMinStatus returns every URL whose recorded status is at or above
// the threshold, in insertion order.
func (s *Store) QueryByMinStatus(minStatus int) ([]models.ErrorRecord, error) {
	query := `SELECT url, status_code, final_url FROM urls WHERE status_code >= ? ORDER BY rowid`
	rows, err := s.db.Query(query, minStatus)
	if err != nil {
		s.logger.Error().Err(err).Int("min_status", minStatus).Msg("Failed to query URLs by status")
		return nil, errorwrapper.NewStoreError("query by min status", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.ErrorRecord
	for rows.Next() {
		var record models.ErrorRecord
		var statusCode sql.NullInt64
		var finalURL sql.NullString
		if err := rows.Scan(&record.URL, &statusCode, &finalURL); err != nil {
			return nil, errorwrapper.NewStoreError("scan url row", err)
		}
		if statusCode.Valid {
			record.StatusCode = int(statusCode.Int64)
		}
		if finalURL.Valid {
			record.FinalURL = finalURL.String
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errorwrapper.NewStoreError("iterate url rows", err)
	}
	return records, nil
}

// InsertCodes stores reference codes for a category, ignoring duplicates.
func (s *Store) InsertCodes(category models.Category, codes []models.ReferenceCode) error {
	table, err := codesTable(category)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errorwrapper.NewStoreError("begin insert codes", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s (code) VALUES (?) ON CONFLICT(code) DO NOTHING`, table)) //nolint:gosec // table name is whitelisted
	if err != nil {
		_ = tx.Rollback()
		return errorwrapper.NewStoreError("prepare insert codes", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, code := range codes {
		if code.Code == "" {
			continue
		}
		if _, err := stmt.Exec(code.Code); err != nil {
			_ = tx.Rollback()
			return errorwrapper.NewStoreError("insert code", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errorwrapper.NewStoreError("commit insert codes", err)
	}

	s.logger.Info().Str("category", string(category)).Int("count", len(codes)).Msg("Inserted reference codes")
	return nil
}

// QueryAllCodes returns every reference code for a category, in insertion order.
func (s *Store) QueryAllCodes(category models.Category) ([]models.ReferenceCode, error) {
	table, err := codesTable(category)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(fmt.Sprintf(`SELECT code FROM %s ORDER BY rowid`, table)) //nolint:gosec // table name is whitelisted
	if err != nil {
		s.logger.Error().Err(err).Str("category", string(category)).Msg("Failed to query reference codes")
		return nil, errorwrapper.NewStoreError("query codes", err)
	}
	defer func() { _ = rows.Close() }()

	var codes []models.ReferenceCode
	for rows.Next() {
		var code models.ReferenceCode
		if err := rows.Scan(&code.Code); err != nil {
			return nil, errorwrapper.NewStoreError("scan code row", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, errorwrapper.NewStoreError("iterate code rows", err)
	}
	return codes, nil
}

// InsertRedirects stores a batch of redirect records in one transaction.
func (s *Store) InsertRedirects(records []models.RedirectRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errorwrapper.NewStoreError("begin insert redirects", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO redirects (from_url, to_url, percent) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errorwrapper.NewStoreError("prepare insert redirects", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range records {
		if _, err := stmt.Exec(record.From, record.To, record.Percent); err != nil {
			_ = tx.Rollback()
			return errorwrapper.NewStoreError("insert redirect", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errorwrapper.NewStoreError("commit insert redirects", err)
	}

	s.logger.Info().Int("count", len(records)).Msg("Inserted redirect records")
	return nil
}

// QueryRedirectsByMinPercent returns redirect records at or above the
// confidence threshold, best matches first.
func (s *Store) QueryRedirectsByMinPercent(minPercent float64) ([]models.RedirectRecord, error) {
	query := `SELECT from_url, to_url, percent FROM redirects WHERE percent >= ? ORDER BY percent DESC, id`
	rows, err := s.db.Query(query, minPercent)
	if err != nil {
		s.logger.Error().Err(err).Float64("min_percent", minPercent).Msg("Failed to query redirects")
		return nil, errorwrapper.NewStoreError("query redirects", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.RedirectRecord
	for rows.Next() {
		var record models.RedirectRecord
		if err := rows.Scan(&record.From, &record.To, &record.Percent); err != nil {
			return nil, errorwrapper.NewStoreError("scan redirect row", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errorwrapper.NewStoreError("iterate redirect rows", err)
	}
	return records, nil
}
