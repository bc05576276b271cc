// Package discovery locates candidate URLs for each content category of
// a storefront: policy pages, FAQ pages, the about page, the contact
// page, and sitemaps. Candidates come from canonical Shopify path probes
// and keyword scans over home-page anchors.
package discovery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/fetch"
	"github.com/shopsight/insights/internal/insights"
)

// PolicyCandidate pairs a policy kind with a candidate URL.
type PolicyCandidate struct {
	Kind insights.PolicyKind
	URL  string
}

// policySlugs maps each policy kind to the keyword/slug set matched
// against hrefs and link text. Slugs under policies/ double as canonical
// Shopify route probes.
var policySlugs = []struct {
	kind  insights.PolicyKind
	slugs []string
}{
	{insights.PolicyPrivacy, []string{"privacy-policy", "privacy", "policies/privacy-policy"}},
	{insights.PolicyRefund, []string{"refund-policy", "refund", "return-policy", "policies/refund-policy", "policies/return-policy"}},
	{insights.PolicyReturn, []string{"return", "returns"}},
	{insights.PolicyShipping, []string{"shipping-policy", "shipping", "delivery"}},
	{insights.PolicyTerms, []string{"terms-of-service", "terms", "tos"}},
}

var (
	faqKeywords     = []string{"faq", "faqs", "help", "support", "returns", "shipping"}
	aboutKeywords   = []string{"about", "about-us", "our-story"}
	contactKeywords = []string{"contact", "contact-us", "support", "help"}
	sitemapPaths    = []string{"/sitemap.xml", "/sitemap_index.xml"}
)

const maxFAQCandidates = 8

// Discoverer runs candidate-URL discovery against one storefront.
type Discoverer struct {
	client         *fetch.Client
	minPolicyBytes int
	logger         *zap.Logger
}

// New builds a Discoverer. minPolicyBytes rejects canonical-path probes
// whose body is too short to be a real policy page.
func New(client *fetch.Client, minPolicyBytes int, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{client: client, minPolicyBytes: minPolicyBytes, logger: logger}
}

// FindLinksByKeywords scans anchors in doc, matching each keyword
// against the href and the lowercased link text, and returns absolute
// URLs deduplicated in first-seen order.
func FindLinksByKeywords(doc *goquery.Document, base string, keywords []string) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		hrefLower := strings.ToLower(href)
		for _, kw := range keywords {
			if strings.Contains(hrefLower, kw) || strings.Contains(text, kw) {
				links = append(links, insights.ResolveRef(base, href))
				return
			}
		}
	})
	return insights.DedupStrings(links)
}

// Policies runs the two-pass policy discovery: canonical Shopify route
// probes first, then home-page keyword scans. Pass-2 matches are
// appended even when pass 1 already found the kind; the orchestrator's
// kind-first-wins merge resolves duplicates. A failed probe degrades to
// "no candidate", never an error.
func (d *Discoverer) Policies(ctx context.Context, base string, home *goquery.Document) []PolicyCandidate {
	var found []PolicyCandidate

	for _, entry := range policySlugs {
		for _, slug := range entry.slugs {
			if !strings.HasPrefix(slug, "policies/") {
				continue
			}
			candidate := base + "/" + slug
			resp, err := d.client.Get(ctx, candidate)
			if err != nil {
				d.logger.Debug("policy probe failed",
					zap.String("url", candidate), zap.Error(err))
				continue
			}
			if resp.StatusCode != 200 || len(resp.Body) <= d.minPolicyBytes {
				continue
			}
			found = append(found, PolicyCandidate{Kind: entry.kind, URL: candidate})
		}
	}

	for _, entry := range policySlugs {
		for _, link := range FindLinksByKeywords(home, base, entry.slugs) {
			if containsCandidate(found, entry.kind, link) {
				continue
			}
			found = append(found, PolicyCandidate{Kind: entry.kind, URL: link})
		}
	}
	return found
}

func containsCandidate(found []PolicyCandidate, kind insights.PolicyKind, url string) bool {
	for _, c := range found {
		if c.Kind == kind && c.URL == url {
			return true
		}
	}
	return false
}

// FAQPages returns up to 8 FAQ page candidates from home-page anchors.
func (d *Discoverer) FAQPages(base string, home *goquery.Document) []string {
	links := FindLinksByKeywords(home, base, faqKeywords)
	if len(links) > maxFAQCandidates {
		links = links[:maxFAQCandidates]
	}
	return links
}

// AboutPage returns the first about-page candidate, trying keywords in
// priority order.
func (d *Discoverer) AboutPage(base string, home *goquery.Document) string {
	return firstByKeyword(home, base, aboutKeywords)
}

// ContactPage returns the first contact-page candidate.
func (d *Discoverer) ContactPage(base string, home *goquery.Document) string {
	return firstByKeyword(home, base, contactKeywords)
}

func firstByKeyword(doc *goquery.Document, base string, keywords []string) string {
	for _, kw := range keywords {
		if links := FindLinksByKeywords(doc, base, []string{kw}); len(links) > 0 {
			return links[0]
		}
	}
	return ""
}

// Sitemaps probes the fixed sitemap paths, accepting a URL only when the
// response is 200 and the body carries a sitemap root element.
func (d *Discoverer) Sitemaps(ctx context.Context, base string) []string {
	var sitemaps []string
	for _, path := range sitemapPaths {
		candidate := base + path
		resp, err := d.client.Get(ctx, candidate)
		if err != nil || resp.StatusCode != 200 {
			continue
		}
		body := string(resp.Body)
		if strings.Contains(body, "<urlset") || strings.Contains(body, "<sitemapindex") {
			sitemaps = append(sitemaps, candidate)
		}
	}
	return sitemaps
}
