package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFAQsFromDetails(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<details>
			<summary>Do you ship internationally?</summary>
			<p>Yes, we ship to over 40 countries.</p>
		</details>
		<details>
			<summary>What is your return window?</summary>
			<div>30 days from delivery.</div>
		</details>
	</body></html>`)

	faqs := FAQs(doc, "https://example.com/pages/faq")
	require.Len(t, faqs, 2)
	require.Equal(t, "Do you ship internationally?", faqs[0].Question)
	require.Equal(t, "Yes, we ship to over 40 countries.", faqs[0].Answer)
	require.Equal(t, "https://example.com/pages/faq", faqs[0].URL)
	require.Equal(t, "What is your return window?", faqs[1].Question)
	require.Equal(t, "30 days from delivery.", faqs[1].Answer)
}

func TestFAQsFromHeadings(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h3>How long does delivery take?</h3>
		<p>Usually between 3 and 5 business days.</p>
		<h3>Short</h3>
		<p>No.</p>
		<h2>Our Story</h2>
		<img src="hero.jpg">
	</body></html>`)

	faqs := FAQs(doc, "")
	require.Len(t, faqs, 1)
	require.Equal(t, "How long does delivery take?", faqs[0].Question)
	require.Equal(t, "Usually between 3 and 5 business days.", faqs[0].Answer)
}

func TestFAQsDedupAcrossHeuristics(t *testing.T) {
	// The same pair rendered both as details and as heading+paragraph
	// must survive only once.
	doc := mustDoc(t, `<html><body>
		<details>
			<summary>Is payment secure?</summary>
			<div>All payments are processed over TLS.</div>
		</details>
		<h3>Is payment secure?</h3>
		<p>All payments are processed over TLS.</p>
	</body></html>`)

	faqs := FAQs(doc, "")
	require.Len(t, faqs, 1)
}

func TestFAQsIdempotent(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<details><summary>Q one?</summary><p>Answer number one.</p></details>
		<h3>Q two?</h3><p>Answer number two.</p>
	</body></html>`)

	first := FAQs(doc, "https://example.com/faq")
	second := FAQs(doc, "https://example.com/faq")
	require.Equal(t, first, second)
	require.Len(t, first, 2)
}

func TestFAQsPerPageCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < maxFAQsPerPage+10; i++ {
		b.WriteString(`<details><summary>Question `)
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(`?</summary><p>An answer with enough text.</p></details>`)
	}
	b.WriteString("</body></html>")

	faqs := FAQs(mustDoc(t, b.String()), "")
	require.Len(t, faqs, maxFAQsPerPage)
}

func TestFAQsEmptyDocument(t *testing.T) {
	require.Empty(t, FAQs(mustDoc(t, "<html><body></body></html>"), ""))
}
