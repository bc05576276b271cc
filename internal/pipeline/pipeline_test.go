package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/fetch"
	"github.com/shopsight/insights/internal/insights"
)

const storefrontHome = `<html><head>
	<title>Acme Wear | Basics</title>
	<meta name="description" content="Basics that last.">
	<link rel="stylesheet" href="https://cdn.shopify.com/s/files/theme.css">
</head><body>
	<a href="/products/widget">Widget</a>
	<a href="/pages/faq">FAQ</a>
	<a href="/pages/about-us">About us</a>
	<a href="/pages/contact">Contact</a>
	<a href="https://instagram.com/acmewear">Instagram</a>
	<a href="mailto:support@acme.com">Email</a>
	<a href="/blogs/news">Blog</a>
</body></html>`

const aboutPage = `<html><head>
	<script type="application/ld+json">{"@type":"Organization","name":"Acme Wear"}</script>
</head><body><main><p>We started Acme Wear in a garage and still make every piece to order.</p></main></body></html>`

const faqPage = `<html><body>
	<details><summary>Do you ship internationally?</summary><p>Yes, to over 40 countries.</p></details>
	<details><summary>What is your return window?</summary><p>30 days from delivery.</p></details>
</body></html>`

const productsListing = `{"products":[{
	"handle": "widget",
	"title": "Widget",
	"tags": ["basics"],
	"images": [{"src": "https://cdn.example.com/widget.jpg"}],
	"variants": [{"id": 1, "title": "Default", "price": "19.99", "compare_at_price": "29.99", "available": true, "sku": "W-1"}]
}]}`

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// newStorefront serves a minimal but complete Shopify-looking site.
func newStorefront(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(storefrontHome))
	})
	mux.HandleFunc("/products.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(productsListing))
	})
	mux.HandleFunc("/pages/faq", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(faqPage))
	})
	mux.HandleFunc("/pages/about-us", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(aboutPage))
	})
	mux.HandleFunc("/policies/privacy-policy", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><main>" + strings.Repeat("We respect your privacy. ", 30) + "</main></body></html>"))
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><urlset></urlset>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRunner() *Runner {
	client := fetch.New(fetch.Config{Timeout: 5 * time.Second, Concurrency: 8}, zap.NewNop())
	return NewRunner(client, nil, nil, Config{
		MaxProducts:    100,
		MaxFAQs:        10,
		MaxFAQPages:    3,
		HeroCap:        5,
		MinPolicyBytes: 200,
		ArchivePrefix:  "snapshots",
	}, zap.NewNop())
}

func TestRunFullStorefront(t *testing.T) {
	srv := newStorefront(t)

	out, err := newRunner().Run(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Equal(t, srv.URL, out.Website)
	require.Equal(t, "Acme Wear", out.BrandName)
	require.Contains(t, out.AboutText, "garage")

	require.Len(t, out.ProductCatalog, 1)
	require.Equal(t, "widget", out.ProductCatalog[0].Handle)

	require.Len(t, out.HeroProducts, 1)
	require.Equal(t, srv.URL+"/products/widget", out.HeroProducts[0].URL)
	require.NotNil(t, out.HeroProducts[0].Price)

	require.Len(t, out.Policies, 1)
	require.Equal(t, insights.PolicyPrivacy, out.Policies[0].Kind)
	require.Contains(t, out.Policies[0].ContentText, "We respect your privacy.")

	require.Len(t, out.FAQs, 2)
	require.Equal(t, "Do you ship internationally?", out.FAQs[0].Question)

	require.Len(t, out.Socials, 1)
	require.Equal(t, insights.SocialInstagram, out.Socials[0].Platform)

	require.Equal(t, []string{"support@acme.com"}, out.Contacts.Emails)
	require.Equal(t, srv.URL+"/pages/contact", out.Contacts.ContactPage)

	require.Equal(t, srv.URL+"/pages/contact", out.ImportantLinks.ContactUs)
	require.Equal(t, srv.URL+"/blogs/news", out.ImportantLinks.Blogs)
	require.Equal(t, srv.URL+"/sitemap.xml", out.ImportantLinks.Sitemap)

	require.Equal(t, "Acme Wear | Basics", out.SEO.Title)
	require.Equal(t, "Basics that last.", out.SEO.Description)

	require.Equal(t, 33.34, out.PriceInsights.AvgDiscountPct)
	require.Equal(t, 1, out.PriceInsights.ProductsOnSale)
	require.False(t, out.FetchedAt.IsZero())
	require.Equal(t, Version, out.Meta["version"])
}

func TestRunDeterministic(t *testing.T) {
	srv := newStorefront(t)
	r := newRunner()

	first, err := r.Run(context.Background(), srv.URL)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), srv.URL)
	require.NoError(t, err)

	first.FetchedAt = second.FetchedAt
	require.Equal(t, first, second)
}

func TestRunUnreachableSite(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	out, err := newRunner().Run(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrNotShopify)
	require.Nil(t, out)
	// Only the probe touched the site; no category fetches followed.
	require.Equal(t, int64(1), hits.Load())
}

func TestRunNonShopifySite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>just a plain site</body></html>"))
	}))
	defer srv.Close()

	_, err := newRunner().Run(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrNotShopify)
}

func TestRunInvalidURL(t *testing.T) {
	_, err := newRunner().Run(context.Background(), "")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotShopify)
}
