package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImportantLinks(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a href="/pages/track-order">Where is my order</a>
		<a href="/pages/contact">Contact us</a>
		<a href="/blogs/journal">Journal</a>
		<a href="/sitemap.xml">XML sitemap</a>
		<a href="/policies/return-policy">Returns</a>
		<a href="/pages/size-guide">Size guide</a>
	</body></html>`)

	links := ImportantLinks(doc, "https://acme.com")
	require.Equal(t, "https://acme.com/pages/track-order", links.OrderTracking)
	require.Equal(t, "https://acme.com/pages/contact", links.ContactUs)
	require.Equal(t, "https://acme.com/blogs/journal", links.Blogs)
	require.Equal(t, "https://acme.com/sitemap.xml", links.Sitemap)
	require.Equal(t, []string{
		"https://acme.com/policies/return-policy",
		"https://acme.com/pages/size-guide",
	}, links.Others)
}

func TestImportantLinksFirstMatchWins(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a href="/pages/contact">Contact</a>
		<a href="/pages/contact-wholesale">Wholesale contact</a>
	</body></html>`)

	links := ImportantLinks(doc, "https://acme.com")
	require.Equal(t, "https://acme.com/pages/contact", links.ContactUs)
}

func TestImportantLinksOthersCapAndDedup(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	// The same FAQ link twice plus more distinct policy links than the cap.
	b.WriteString(`<a href="/pages/faq">FAQ</a><a href="/pages/faq">FAQ</a>`)
	for i := 0; i < maxOtherLinks+5; i++ {
		fmt.Fprintf(&b, `<a href="/policies/policy-%d">Policy %d</a>`, i, i)
	}
	b.WriteString("</body></html>")

	links := ImportantLinks(mustDoc(t, b.String()), "https://acme.com")
	require.Len(t, links.Others, maxOtherLinks)
	require.Equal(t, "https://acme.com/pages/faq", links.Others[0])
}

func TestImportantLinksEmpty(t *testing.T) {
	links := ImportantLinks(mustDoc(t, "<html><body></body></html>"), "https://acme.com")
	require.Empty(t, links.OrderTracking)
	require.Empty(t, links.Others)
}
