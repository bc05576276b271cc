// Package catalog fetches and normalizes a storefront's product listing
// via the Shopify JSON endpoints.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/fetch"
	"github.com/shopsight/insights/internal/insights"
	"github.com/shopsight/insights/internal/metrics"
)

const pageSize = 250

// Fetcher paginates the product listing endpoints.
type Fetcher struct {
	client *fetch.Client
	logger *zap.Logger
}

// NewFetcher builds a Fetcher.
func NewFetcher(client *fetch.Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

type listingPage struct {
	Products []map[string]any `json:"products"`
}

// FetchAll paginates /products.json (falling back once to
// /collections/all/products.json when the first page fails) and
// normalizes every entry. Pagination stops on an empty page, a short
// page, a failed request, or when cap is reached. There are no retries;
// a failed page ends pagination with the accumulated records kept.
func (f *Fetcher) FetchAll(ctx context.Context, base string, cap int) []insights.Product {
	var out []insights.Product

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/products.json?limit=%d&page=%d", base, pageSize, page)
		var listing listingPage
		if err := f.client.GetJSON(ctx, url, &listing); err != nil {
			if page == 1 {
				fallback := fmt.Sprintf("%s/collections/all/products.json?limit=%d&page=%d", base, pageSize, page)
				if ferr := f.client.GetJSON(ctx, fallback, &listing); ferr != nil {
					f.logger.Debug("catalog endpoints unavailable",
						zap.String("site", base), zap.Error(err), zap.Error(ferr))
					return out
				}
			} else {
				f.logger.Debug("catalog pagination stopped",
					zap.String("site", base), zap.Int("page", page), zap.Error(err))
				return out
			}
		}
		if len(listing.Products) == 0 {
			return out
		}
		for _, raw := range listing.Products {
			out = append(out, mapProduct(base, raw))
			if len(out) >= cap {
				metrics.AddProducts(len(out))
				return out
			}
		}
		if len(listing.Products) < pageSize {
			metrics.AddProducts(len(out))
			return out
		}
	}
}

// mapProduct normalizes one raw listing entry into a Product record.
func mapProduct(base string, raw map[string]any) insights.Product {
	handle := asString(raw["handle"])
	p := insights.Product{
		Handle: handle,
		Title:  asString(raw["title"]),
		Tags:   coerceTags(raw["tags"]),
		Raw:    raw,
	}
	if handle != "" {
		p.URL = base + "/products/" + handle
	}

	if imgs, ok := raw["images"].([]any); ok {
		for _, img := range imgs {
			if m, ok := img.(map[string]any); ok {
				if src := asString(m["src"]); src != "" {
					p.Images = append(p.Images, src)
				}
			}
		}
	}

	if variants, ok := raw["variants"].([]any); ok {
		for _, v := range variants {
			m, ok := v.(map[string]any)
			if !ok {
				continue
			}
			variant := insights.Variant{
				ID:        asInt64(m["id"]),
				Title:     asString(m["title"]),
				Price:     asFloat(m["price"]),
				Available: asBool(m["available"]),
				SKU:       asString(m["sku"]),
				CompareAt: asFloat(m["compare_at_price"]),
			}
			p.Variants = append(p.Variants, variant)
			if variant.SKU != "" {
				p.SKUs = append(p.SKUs, variant.SKU)
			}
		}
	}
	if len(p.Variants) > 0 {
		p.Price = p.Variants[0].Price
	}
	return p
}

// coerceTags normalizes tags to a list whether the source encodes them
// as a JSON array or as comma-joined text.
func coerceTags(v any) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, item := range t {
			if s := strings.TrimSpace(asString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(t, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}

// asFloat parses a price-like field, returning nil on any failure.
func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
