// Package pipeline orchestrates one insights run: platform probe,
// concurrent catalog fetch and URL discovery, concurrent per-category
// extraction, hero resolution, and aggregate assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopsight/insights/internal/catalog"
	"github.com/shopsight/insights/internal/discovery"
	"github.com/shopsight/insights/internal/extract"
	"github.com/shopsight/insights/internal/fetch"
	"github.com/shopsight/insights/internal/insights"
	"github.com/shopsight/insights/internal/metrics"
	"github.com/shopsight/insights/internal/platform"
	"github.com/shopsight/insights/internal/queue"
	"github.com/shopsight/insights/internal/storage"
)

// ErrNotShopify is returned when the target is unreachable or the
// platform probe is negative. It is the only fatal outcome of a run;
// every other failure degrades a single category.
var ErrNotShopify = errors.New("website not found or not a Shopify storefront")

// Version tags the aggregate's metadata.
const Version = "1.0.0"

// Config carries the immutable per-process pipeline parameters.
type Config struct {
	MaxProducts    int
	MaxFAQs        int
	MaxFAQPages    int
	HeroCap        int
	MinPolicyBytes int
	ArchivePrefix  string
}

// Runner executes insights runs. Multiple runs are independent and
// share only the fetch client's concurrency ceiling.
type Runner struct {
	client  *fetch.Client
	disc    *discovery.Discoverer
	catalog *catalog.Fetcher
	archive storage.Provider
	events  queue.Provider
	cfg     Config
	logger  *zap.Logger
}

// NewRunner builds a Runner. archive and events may be nil to disable
// snapshot archiving and event publishing.
func NewRunner(
	client *fetch.Client,
	archive storage.Provider,
	events queue.Provider,
	cfg Config,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if archive == nil {
		archive = &storage.NoOpProvider{}
	}
	if events == nil {
		events = &queue.NoOpProvider{}
	}
	if cfg.MaxFAQPages <= 0 {
		cfg.MaxFAQPages = 5
	}
	return &Runner{
		client:  client,
		disc:    discovery.New(client, cfg.MinPolicyBytes, logger),
		catalog: catalog.NewFetcher(client, logger),
		archive: archive,
		events:  events,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run extracts a complete BrandContext for the given site identifier.
// It returns ErrNotShopify when the target is unreachable or fails the
// platform probe; no partial result is produced in that case.
func (r *Runner) Run(ctx context.Context, rawURL string) (*insights.BrandContext, error) {
	base, err := insights.NormalizeBaseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("normalize site url: %w", err)
	}
	log := r.logger.With(zap.String("site", base))

	if !platform.Probe(ctx, r.client, base) {
		metrics.ObserveRun("not_found")
		return nil, ErrNotShopify
	}

	home, homeResp, err := r.client.GetDocument(ctx, base+"/")
	if err != nil {
		log.Warn("home page fetch failed after positive probe", zap.Error(err))
		metrics.ObserveRun("not_found")
		return nil, ErrNotShopify
	}

	r.archiveSnapshot(ctx, base, "home.html", homeResp.Body)

	// Pure home-page scans; no network.
	faqURLs := r.disc.FAQPages(base, home)
	aboutURL := r.disc.AboutPage(base, home)
	contactURL := r.disc.ContactPage(base, home)

	var (
		products   []insights.Product
		candidates []discovery.PolicyCandidate
		sitemaps   []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products = r.catalog.FetchAll(gctx, base, r.cfg.MaxProducts)
		return nil
	})
	g.Go(func() error {
		candidates = r.disc.Policies(gctx, base, home)
		return nil
	})
	g.Go(func() error {
		sitemaps = r.disc.Sitemaps(gctx, base)
		return nil
	})
	_ = g.Wait() // tasks degrade internally and never return errors

	out := &insights.BrandContext{
		Website:        base,
		ProductCatalog: products,
		FetchedAt:      time.Now().UTC(),
		Meta: map[string]string{
			"source":  "shopsight-insights",
			"version": Version,
		},
	}
	out.Contacts.ContactPage = contactURL

	var (
		policies  []insights.Policy
		faqs      []insights.FAQ
		aboutText string
		aboutName string
		heroes    []insights.Product
	)
	g2, g2ctx := errgroup.WithContext(ctx)
	g2.Go(func() error {
		policies = r.extractPolicies(g2ctx, candidates)
		return nil
	})
	g2.Go(func() error {
		faqs = r.extractFAQs(g2ctx, faqURLs)
		return nil
	})
	g2.Go(func() error {
		aboutText, aboutName = r.extractAbout(g2ctx, aboutURL)
		return nil
	})
	g2.Go(func() error {
		heroes = r.catalog.ResolveHero(g2ctx, base, home, products, r.cfg.HeroCap)
		return nil
	})
	_ = g2.Wait()

	extract.ApplyHomeExtractors(home, base, out)

	out.Policies = policies
	out.FAQs = faqs
	out.HeroProducts = heroes
	out.PriceInsights = extract.PriceInsights(products)

	// Structured data wins; the about page is consulted before any
	// simpler fallback, and the rich path never guesses from a title.
	out.BrandName = extract.BrandNameFromJSONLD(home)
	if out.BrandName == "" {
		out.BrandName = aboutName
	}
	out.AboutText = aboutText
	if out.AboutText == "" {
		out.AboutText = extract.AboutText(home)
	}
	if len(sitemaps) > 0 && out.ImportantLinks.Sitemap == "" {
		out.ImportantLinks.Sitemap = sitemaps[0]
	}

	r.publishRunCompleted(ctx, out)
	metrics.ObserveRun("complete")
	log.Info("insights run complete",
		zap.Int("products", len(out.ProductCatalog)),
		zap.Int("heroes", len(out.HeroProducts)),
		zap.Int("policies", len(out.Policies)),
		zap.Int("faqs", len(out.FAQs)),
	)
	return out, nil
}

// extractPolicies fetches each candidate in discovery order and keeps
// the first successful extraction per kind.
func (r *Runner) extractPolicies(ctx context.Context, candidates []discovery.PolicyCandidate) []insights.Policy {
	seen := insights.NewOrderedSet()
	var out []insights.Policy
	for _, cand := range candidates {
		if seen.Has(string(cand.Kind)) {
			continue
		}
		doc, resp, err := r.client.GetDocument(ctx, cand.URL)
		if err != nil {
			r.logger.Debug("policy fetch failed", zap.String("url", cand.URL), zap.Error(err))
			continue
		}
		seen.Add(string(cand.Kind), cand.URL)
		out = append(out, insights.Policy{
			Kind:        cand.Kind,
			URL:         cand.URL,
			ContentHTML: string(resp.Body),
			ContentText: extract.ReadableText(doc, 0),
		})
	}
	return out
}

// extractFAQs fetches up to MaxFAQPages candidate pages in discovery
// order, merges the per-page pairs, and deduplicates by question text
// case-insensitively, capped at MaxFAQs.
func (r *Runner) extractFAQs(ctx context.Context, urls []string) []insights.FAQ {
	if len(urls) > r.cfg.MaxFAQPages {
		urls = urls[:r.cfg.MaxFAQPages]
	}
	var merged []insights.FAQ
	for _, u := range urls {
		doc, _, err := r.client.GetDocument(ctx, u)
		if err != nil {
			r.logger.Debug("faq fetch failed", zap.String("url", u), zap.Error(err))
			continue
		}
		merged = append(merged, extract.FAQs(doc, u)...)
	}

	seen := insights.NewOrderedSet()
	var out []insights.FAQ
	for _, f := range merged {
		if !seen.Add(strings.ToLower(f.Question), f.Question) {
			continue
		}
		out = append(out, f)
		if r.cfg.MaxFAQs > 0 && len(out) >= r.cfg.MaxFAQs {
			break
		}
	}
	return out
}

// extractAbout fetches the discovered about page, returning its
// readable text and any structured brand name it declares.
func (r *Runner) extractAbout(ctx context.Context, aboutURL string) (string, string) {
	if aboutURL == "" {
		return "", ""
	}
	doc, _, err := r.client.GetDocument(ctx, aboutURL)
	if err != nil {
		r.logger.Debug("about fetch failed", zap.String("url", aboutURL), zap.Error(err))
		return "", ""
	}
	return extract.AboutText(doc), extract.BrandNameFromJSONLD(doc)
}

func (r *Runner) archiveSnapshot(ctx context.Context, base, name string, body []byte) {
	object := fmt.Sprintf("%s/%s/%s", strings.Trim(r.cfg.ArchivePrefix, "/"), metrics.SanitizeSite(base), name)
	if err := r.archive.Save(ctx, object, body); err != nil {
		r.logger.Warn("snapshot archive failed", zap.String("object", object), zap.Error(err))
	}
}

func (r *Runner) publishRunCompleted(ctx context.Context, out *insights.BrandContext) {
	payload := fmt.Sprintf(`{"website":%q,"fetched_at":%q,"products":%d}`,
		out.Website, out.FetchedAt.Format(time.RFC3339), len(out.ProductCatalog))
	if err := r.events.Publish(ctx, []byte(payload)); err != nil {
		r.logger.Warn("run event publish failed", zap.Error(err))
	}
}
