package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsight/insights/internal/insights"
)

// SEO extracts the page title, meta description (falling back to the
// Open-Graph description), and a map of all Open-Graph/Twitter-card meta
// properties.
func SEO(doc *goquery.Document) insights.SEOMetadata {
	meta := insights.SEOMetadata{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && strings.TrimSpace(desc) != "" {
		meta.Description = strings.TrimSpace(desc)
	} else if og, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		meta.Description = strings.TrimSpace(og)
	}

	og := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("property")
		if !strings.HasPrefix(key, "og:") {
			key, _ = s.Attr("name")
			if !strings.HasPrefix(key, "twitter:") {
				return
			}
		}
		if content, ok := s.Attr("content"); ok {
			og[key] = content
		}
	})
	if len(og) > 0 {
		meta.OpenGraph = og
	}
	return meta
}
