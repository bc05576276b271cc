package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const aboutTextMaxLen = 3000

// AboutText is a best-effort boilerplate-stripped extraction of the
// page's main readable content.
func AboutText(doc *goquery.Document) string {
	return ReadableText(doc, aboutTextMaxLen)
}

// brandTypes are the JSON-LD @type values that may declare a brand name.
var brandTypes = map[string]bool{
	"Organization": true,
	"Store":        true,
	"Brand":        true,
}

// BrandNameFromJSONLD returns the name declared by an
// Organization/Store/Brand linked-data block, or "" when no structured
// declaration exists. It deliberately does not guess from the page
// title; see FallbackBrandName for the looser variant.
func BrandNameFromJSONLD(doc *goquery.Document) string {
	var name string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		if n := brandNameFromNode(payload); n != "" {
			name = n
			return false
		}
		return true
	})
	return name
}

func brandNameFromNode(node any) string {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			if n := brandNameFromNode(item); n != "" {
				return n
			}
		}
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			if n := brandNameFromNode(graph); n != "" {
				return n
			}
		}
		if !nodeHasBrandType(v["@type"]) {
			return ""
		}
		if name, ok := v["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func nodeHasBrandType(t any) bool {
	switch v := t.(type) {
	case string:
		return brandTypes[v]
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && brandTypes[s] {
				return true
			}
		}
	}
	return false
}

// FallbackBrandName guesses a brand name from the og:site_name meta tag,
// falling back to the page title. Last-resort only; the pipeline prefers
// structured data.
func FallbackBrandName(doc *goquery.Document) string {
	if site, ok := doc.Find(`meta[property="og:site_name"]`).First().Attr("content"); ok {
		if s := strings.TrimSpace(site); s != "" {
			return s
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
