package urlhandler

import (
	"net/url"
	"strings"

	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
)

// NormalizeURL normalizes a URL by adding scheme if missing and lowercasing the domain
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errorwrapper.NewError("URL is empty")
	}

	// Add scheme if missing
	if !strings.HasPrefix(trimmedURL, "http://") && !strings.HasPrefix(trimmedURL, "https://") {
		trimmedURL = "https://" + trimmedURL
	}

	// Parse and validate URL
	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", errorwrapper.WrapError(err, "could not parse URL '"+trimmedURL+"'")
	}

	// Lowercase the hostname
	parsedURL.Host = strings.ToLower(parsedURL.Host)

	return parsedURL.String(), nil
}

// TrimTrailingSlash strips a single trailing slash, leaving the root path alone.
func TrimTrailingSlash(u string) string {
	if len(u) > 1 && strings.HasSuffix(u, "/") {
		return u[:len(u)-1]
	}
	return u
}

// SameURL compares two URLs after trailing-slash normalization. It is used
// to decide whether a redirect chain actually moved to a different URL.
func SameURL(a, b string) bool {
	return TrimTrailingSlash(a) == TrimTrailingSlash(b)
}

// JoinPath constructs an absolute URL of the form <base>/<segments...>,
// tolerating trailing slashes on the base.
func JoinPath(base string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(base, "/"))
	for _, seg := range segments {
		sb.WriteString("/")
		sb.WriteString(strings.Trim(seg, "/"))
	}
	return sb.String()
}
