package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sivko/redirects-frizar/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadURLs(t *testing.T) {
	path := writeFile(t, "urls.csv", "https://s/product/A,404\n\nhttps://s/catalog/B/,301\ns/product/C\n")

	im := NewImporter(zerolog.Nop())
	urls, err := im.LoadURLs(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://s/product/A",
		"https://s/catalog/B/",
		"https://s/product/C",
	}, urls)
}

func TestLoadURLs_MissingFile(t *testing.T) {
	im := NewImporter(zerolog.Nop())
	_, err := im.LoadURLs(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadCodes_DeduplicatesPreservingOrder(t *testing.T) {
	path := writeFile(t, "codes.csv", "XYZ100\nABC1\nXYZ100\n\nABC1\nZZZ9\n")

	im := NewImporter(zerolog.Nop())
	codes, err := im.LoadCodes(path)
	require.NoError(t, err)

	assert.Equal(t, []models.ReferenceCode{
		{Code: "XYZ100"},
		{Code: "ABC1"},
		{Code: "ZZZ9"},
	}, codes)
}

func TestLoadCodes_FirstColumnOnly(t *testing.T) {
	path := writeFile(t, "codes.csv", "XYZ100,some name,12\nABC1,other,3\n")

	im := NewImporter(zerolog.Nop())
	codes, err := im.LoadCodes(path)
	require.NoError(t, err)

	assert.Equal(t, []models.ReferenceCode{{Code: "XYZ100"}, {Code: "ABC1"}}, codes)
}
