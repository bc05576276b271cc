package insights

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeBaseURL standardizes a raw site identifier into the
// scheme-qualified base URL every discovery step keys off. Bare domains
// get an https scheme; trailing slashes are stripped.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty site identifier")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse site url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("site url %q has no host", raw)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}

// ResolveRef resolves href against base, tolerating malformed hrefs by
// returning the raw value unchanged.
func ResolveRef(base, href string) string {
	b, err := url.Parse(base + "/")
	if err != nil {
		return href
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
