package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/extract"
	"github.com/shopsight/insights/internal/insights"
)

// searchEndpoint is the HTML search surface queried for competitor
// candidates. Variable so tests can point it at a local server.
var searchEndpoint = "https://duckduckgo.com/html/"

const maxSearchAnchors = 60

// Competitors derives a search query from the seed site's brand name (or
// its domain), runs one query against the DuckDuckGo HTML surface,
// and feeds up to limit distinct result links back through the primary
// pipeline. Per-candidate failures are swallowed, omitting that
// candidate.
func (r *Runner) Competitors(ctx context.Context, rawURL string, limit int) (*insights.CompetitorReport, error) {
	base, err := insights.NormalizeBaseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("normalize site url: %w", err)
	}
	if limit <= 0 {
		limit = 3
	}

	home, _, err := r.client.GetDocument(ctx, base+"/")
	if err != nil {
		return nil, ErrNotShopify
	}

	query := r.buildSearchQuery(home, base)
	links := r.searchCandidates(ctx, query, base, limit)

	report := &insights.CompetitorReport{Source: base}
	for _, candidate := range links {
		ins, err := r.Run(ctx, candidate)
		if err != nil {
			r.logger.Debug("competitor run skipped",
				zap.String("candidate", candidate), zap.Error(err))
			continue
		}
		report.Results = append(report.Results, insights.CompetitorResult{
			Website:  candidate,
			Insights: ins,
		})
	}
	report.CompetitorsSeen = len(report.Results)
	return report, nil
}

// buildSearchQuery prefers the structured brand name, falling back to
// the simpler name guess and finally the bare domain.
func (r *Runner) buildSearchQuery(home *goquery.Document, base string) string {
	name := extract.BrandNameFromJSONLD(home)
	if name == "" {
		name = extract.FallbackBrandName(home)
	}
	if name == "" {
		if u, err := url.Parse(base); err == nil {
			name = u.Hostname()
		}
	}
	var terms []string
	for _, kw := range strings.Fields(name) {
		terms = append(terms, url.QueryEscape(kw))
	}
	if len(terms) == 0 {
		terms = []string{url.QueryEscape(base)}
	}
	return strings.Join(terms, "+") + "+shopify"
}

// searchCandidates extracts outbound result links from one search page,
// unwrapping the redirect parameter and excluding the seed site.
func (r *Runner) searchCandidates(ctx context.Context, query, seed string, limit int) []string {
	doc, _, err := r.client.GetDocument(ctx, searchEndpoint+"?q="+query)
	if err != nil {
		r.logger.Warn("competitor search failed", zap.Error(err))
		return nil
	}

	seen := insights.NewOrderedSet()
	doc.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		if i >= maxSearchAnchors || seen.Len() >= limit {
			return false
		}
		href, _ := a.Attr("href")
		href = unwrapRedirect(href)
		if href == "" || !strings.HasPrefix(href, "http") {
			return true
		}
		if strings.Contains(href, "duckduckgo.com") {
			return true
		}
		candidate := strings.TrimRight(strings.SplitN(href, "?", 2)[0], "/")
		if candidate == seed {
			return true
		}
		seen.Add(candidate, candidate)
		return true
	})
	return seen.Values()
}

// unwrapRedirect resolves DuckDuckGo's uddg redirect parameter to the
// target URL.
func unwrapRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
