// Package platform classifies whether a site runs on Shopify.
package platform

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopsight/insights/internal/fetch"
)

// Shopify markers checked against the home page body. The heuristic is
// intentionally cheap and imprecise; its only job is to short-circuit
// unrelated sites before the expensive extraction runs.
const (
	cdnMarker       = "cdn.shopify.com"
	subdomainMarker = "myshopify.com"
	platformMarker  = "shopify"
	themeMarker     = "theme"
)

// Probe issues one GET against the base URL and applies a substring
// heuristic over the body. It returns false on any transport error,
// timeout, or HTTP status >= 400.
func Probe(ctx context.Context, client *fetch.Client, base string) bool {
	resp, err := client.Get(ctx, base+"/")
	if err != nil {
		return false
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return false
	}
	body := strings.ToLower(string(resp.Body))
	if strings.Contains(body, cdnMarker) || strings.Contains(body, subdomainMarker) {
		return true
	}
	return strings.Contains(body, platformMarker) && strings.Contains(body, themeMarker)
}
