package models

// Category identifies which reference catalog a URL belongs to.
type Category string

const (
	CategoryProduct Category = "product"
	CategoryCatalog Category = "catalog"
)

// ProbeResult is the outcome of a single HTTP probe.
// StatusCode is 0 when no HTTP response was received at all (transport
// failure); any real response, including 4xx/5xx, counts as a successful
// probe. FinalURL is set only when the effective URL after following
// redirects differs from the input.
type ProbeResult struct {
	InputURL   string `json:"input_url"`
	StatusCode int    `json:"status_code,omitempty"`
	FinalURL   string `json:"final_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HasStatus reports whether the probe produced any HTTP response.
func (pr *ProbeResult) HasStatus() bool {
	return pr.StatusCode > 0
}

// ErrorRecord is a persisted failing URL with its last observed status.
type ErrorRecord struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	FinalURL   string `json:"final_url,omitempty"`
}

// ReferenceCode is one valid code from a reference catalog, deduplicated
// by value before it reaches the matcher.
type ReferenceCode struct {
	Code string `json:"code"`
}

// RedirectCandidate is the best-scoring reference code for a query code.
type RedirectCandidate struct {
	Code    string  `json:"code"`
	Percent float64 `json:"percent"`
}

// RedirectRecord maps an originally-failing URL to its resolved target.
// From always holds the original URL, even when matching followed a
// redirect chain to an intermediate URL.
type RedirectRecord struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Percent float64 `json:"percent"`
}

// Classification is the result of deriving a category and comparison code
// from a URL path.
type Classification struct {
	Category Category `json:"category,omitempty"`
	Code     string   `json:"code,omitempty"`
}

// ResolveSummary aggregates counters for one resolution sweep.
// Skipped is the total of all skip reasons; the finer counters break it
// down for reporting.
type ResolveSummary struct {
	Processed       int `json:"processed"`
	ProductMatches  int `json:"product_matches"`
	CatalogMatches  int `json:"catalog_matches"`
	RedirectedTo404 int `json:"redirected_to_404"`
	Skipped         int `json:"skipped"`

	DecodeFailures int `json:"decode_failures"`
	NoCategory     int `json:"no_category"`
	NoMatch        int `json:"no_match"`
	Healthy        int `json:"healthy"`
}

// Matches returns the total number of emitted redirect records.
func (s *ResolveSummary) Matches() int {
	return s.ProductMatches + s.CatalogMatches
}
