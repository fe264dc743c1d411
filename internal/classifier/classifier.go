package classifier

import (
	"net/url"
	"strings"

	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
	"github.com/Sivko/redirects-frizar/internal/models"
)

const (
	productSegment = "/product/"
	catalogSegment = "/catalog/"
)

// Classify derives a category and a comparison code from a URL.
//
// The category comes from the path segment: /product/ is checked before
// /catalog/, so a URL containing both is classified as product. The code
// is the last non-empty path segment of the URL-decoded string, with a
// single trailing slash stripped first.
//
// A malformed percent-encoding returns an error; the caller counts the
// URL as skipped rather than treating it as a missing match.
func Classify(rawURL string) (models.Classification, error) {
	decoded, err := url.PathUnescape(rawURL)
	if err != nil {
		return models.Classification{}, errorwrapper.WrapError(err, "could not decode URL '"+rawURL+"'")
	}

	var classification models.Classification

	switch {
	case strings.Contains(decoded, productSegment):
		classification.Category = models.CategoryProduct
	case strings.Contains(decoded, catalogSegment):
		classification.Category = models.CategoryCatalog
	}

	classification.Code = extractCode(decoded)
	return classification, nil
}

// extractCode returns the last non-empty path segment of an already-decoded URL.
func extractCode(decoded string) string {
	trimmed := decoded
	if strings.HasSuffix(trimmed, "/") {
		trimmed = trimmed[:len(trimmed)-1]
	}

	segments := strings.Split(trimmed, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
