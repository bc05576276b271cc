package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/insights"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestResolveHeroCatalogMatch(t *testing.T) {
	home := mustDoc(t, `<html><body>
		<a href="/products/widget">Widget</a>
		<a href="/products/widget">Widget again</a>
		<a href="/collections/all">All</a>
	</body></html>`)

	price := 19.99
	catalog := []insights.Product{{
		Handle: "widget",
		Title:  "Widget",
		URL:    "https://acme.com/products/widget",
		Price:  &price,
	}}

	f := NewFetcher(newClient(), zap.NewNop())
	heroes := f.ResolveHero(context.Background(), "https://acme.com", home, catalog, 12)
	require.Len(t, heroes, 1)
	require.Equal(t, "widget", heroes[0].Handle)
	require.NotNil(t, heroes[0].Price)
}

func TestResolveHeroScrapesUnknownProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/mystery" {
			_, _ = w.Write([]byte("<html><body><h1>Mystery Tee</h1></body></html>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	home := mustDoc(t, `<html><body>
		<a href="/products/mystery">New drop</a>
		<a href="/products/gone">Broken link</a>
	</body></html>`)

	f := NewFetcher(newClient(), zap.NewNop())
	heroes := f.ResolveHero(context.Background(), srv.URL, home, nil, 12)

	// The live page is scraped; the 404 candidate is skipped silently.
	require.Len(t, heroes, 1)
	require.Equal(t, srv.URL+"/products/mystery", heroes[0].URL)
	require.Equal(t, "Mystery Tee", heroes[0].Title)
	require.Empty(t, heroes[0].Handle)
}

func TestResolveHeroCap(t *testing.T) {
	home := mustDoc(t, `<html><body>
		<a href="/products/a">A</a>
		<a href="/products/b">B</a>
		<a href="/products/c">C</a>
	</body></html>`)

	var catalog []insights.Product
	for _, h := range []string{"a", "b", "c"} {
		catalog = append(catalog, insights.Product{Handle: h, URL: "https://acme.com/products/" + h})
	}

	f := NewFetcher(newClient(), zap.NewNop())
	heroes := f.ResolveHero(context.Background(), "https://acme.com", home, catalog, 2)
	require.Len(t, heroes, 2)
	require.Equal(t, "a", heroes[0].Handle)
	require.Equal(t, "b", heroes[1].Handle)
}

func TestResolveHeroIgnoresNonProductPaths(t *testing.T) {
	home := mustDoc(t, `<html><body>
		<a href="/products/widget/reviews">Reviews</a>
		<a href="/pages/about">About</a>
	</body></html>`)

	f := NewFetcher(newClient(), zap.NewNop())
	require.Empty(t, f.ResolveHero(context.Background(), "https://acme.com", home, nil, 12))
}
