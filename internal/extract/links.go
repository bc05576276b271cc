package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsight/insights/internal/insights"
)

const maxOtherLinks = 20

var (
	trackingKeywords = []string{"track", "order-tracking"}
	contactKeywords  = []string{"contact"}
	blogKeywords     = []string{"blog", "news", "stories"}
	otherKeywords    = []string{"return", "size", "policy", "faq"}
)

// ImportantLinks scans anchors for well-known link categories. The first
// match per category in document order wins. A secondary broader pass
// fills the "others" bucket, capped and deduplicated in order.
func ImportantLinks(doc *goquery.Document, base string) insights.ImportantLinks {
	var links insights.ImportantLinks

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		hrefLower := strings.ToLower(href)
		resolved := insights.ResolveRef(base, href)

		if links.OrderTracking == "" && matchesAny(text, hrefLower, trackingKeywords) {
			links.OrderTracking = resolved
		}
		if links.ContactUs == "" && matchesAny(text, hrefLower, contactKeywords) {
			links.ContactUs = resolved
		}
		if links.Blogs == "" && matchesAny(text, hrefLower, blogKeywords) {
			links.Blogs = resolved
		}
		if links.Sitemap == "" &&
			(strings.Contains(text, "sitemap") || strings.Contains(hrefLower, "sitemap.xml")) {
			links.Sitemap = resolved
		}
	})

	others := insights.NewOrderedSet()
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if others.Len() >= maxOtherLinks {
			return
		}
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		hrefLower := strings.ToLower(href)
		for _, kw := range otherKeywords {
			if strings.Contains(hrefLower, kw) {
				resolved := insights.ResolveRef(base, href)
				others.Add(resolved, resolved)
				return
			}
		}
	})
	links.Others = others.Values()
	return links
}

func matchesAny(text, href string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) || strings.Contains(href, kw) {
			return true
		}
	}
	return false
}
