package usecase

import (
	"net/url"
	"strings"

	"github.com/budgettracker/backend/internal/domain"
)

// NormalizeURL trims user input, prefixes https:// when no scheme was typed and
// checks that the result is an absolute http(s) URL with a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.NewExtractionError(domain.ErrInvalidURL, nil)
	}
	if hasForeignScheme(raw) {
		return "", domain.NewExtractionError(domain.ErrInvalidURL, nil)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", domain.NewExtractionError(domain.ErrInvalidURL, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", domain.NewExtractionError(domain.ErrInvalidURL, nil)
	}
	if parsed.Hostname() == "" || strings.ContainsAny(parsed.Host, " \t") {
		return "", domain.NewExtractionError(domain.ErrInvalidURL, nil)
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}

// hasForeignScheme reports whether raw already names a scheme other than
// http(s), e.g. "mailto:a@b.c" or "javascript:void(0)". A host followed by a
// port ("localhost:8080/p") is not a scheme.
func hasForeignScheme(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return false
	}
	switch parsed.Scheme {
	case "http", "https":
		return false
	}
	rest := raw[len(parsed.Scheme)+1:]
	return rest == "" || rest[0] < '0' || rest[0] > '9'
}

// resolveImageURL resolves a possibly relative image reference against the
// page it was found on. Non-http(s) references are dropped.
func resolveImageURL(pageURL, image string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(image))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}
