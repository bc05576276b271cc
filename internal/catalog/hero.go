package catalog

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/insights"
)

var productPathRe = regexp.MustCompile(`/products/[^/]+/?$`)

// ResolveHero cross-references product links on the home page against
// the fetched catalog. Links absent from the catalog get one minimal
// single-page scrape (title only); a failed scrape skips the candidate
// silently. The result preserves home-page order, deduplicated by URL,
// capped at cap entries.
func (f *Fetcher) ResolveHero(
	ctx context.Context,
	base string,
	home *goquery.Document,
	catalog []insights.Product,
	cap int,
) []insights.Product {
	var links []string
	home.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" || !productPathRe.MatchString(href) {
			return
		}
		links = append(links, insights.ResolveRef(base, href))
	})
	links = insights.DedupStrings(links)

	byURL := make(map[string]insights.Product, len(catalog))
	for _, p := range catalog {
		if p.URL != "" {
			byURL[p.URL] = p
		}
	}

	var heroes []insights.Product
	for _, link := range links {
		if len(heroes) >= cap {
			break
		}
		if p, ok := byURL[link]; ok {
			heroes = append(heroes, p)
			continue
		}
		p, ok := f.scrapeMinimal(ctx, link)
		if !ok {
			continue
		}
		heroes = append(heroes, p)
	}
	return heroes
}

// scrapeMinimal fetches one product page and extracts a title-only
// record.
func (f *Fetcher) scrapeMinimal(ctx context.Context, url string) (insights.Product, bool) {
	doc, _, err := f.client.GetDocument(ctx, url)
	if err != nil {
		f.logger.Debug("hero scrape failed", zap.String("url", url), zap.Error(err))
		return insights.Product{}, false
	}
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title, _ = doc.Find(`meta[property="og:title"]`).First().Attr("content")
		title = strings.TrimSpace(title)
	}
	return insights.Product{URL: url, Title: title}, true
}
