package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsight/insights/internal/insights"
)

const (
	// maxFAQsPerPage caps the pairs extracted from one document.
	maxFAQsPerPage = 50
	minAnswerLen   = 5
	faqKeyPrefix   = 80
)

// faqQuestionSelectors covers structured question markers plus the
// common heading tags scanned by the sibling heuristic.
const faqQuestionSelectors = ".question, .faq-question, h2, h3, h4"

// FAQs extracts question/answer pairs from one document using two
// layered heuristics: expandable details/summary blocks first, then
// headings paired with their next content block. Output is
// deduplicated by the first 80 characters of question and answer
// (case-insensitive) and capped at 50 pairs, preserving document order.
// Running it twice on the same document yields identical output.
func FAQs(doc *goquery.Document, pageURL string) []insights.FAQ {
	var pairs []insights.FAQ
	pairs = append(pairs, faqsFromDetails(doc, pageURL)...)
	pairs = append(pairs, faqsFromHeadings(doc, pageURL)...)

	seen := insights.NewOrderedSet()
	var out []insights.FAQ
	for _, f := range pairs {
		if !seen.Add(faqKey(f), f.Question) {
			continue
		}
		out = append(out, f)
		if len(out) >= maxFAQsPerPage {
			break
		}
	}
	return out
}

// faqsFromDetails pairs each summary heading with its container's
// remaining text after removing the heading text once.
func faqsFromDetails(doc *goquery.Document, pageURL string) []insights.FAQ {
	var out []insights.FAQ
	doc.Find("details").Each(func(_ int, d *goquery.Selection) {
		summary := d.Find("summary").First()
		if summary.Length() == 0 {
			return
		}
		q := flatText(summary)
		a := strings.TrimSpace(strings.Replace(flatText(d), q, "", 1))
		if q == "" || a == "" {
			return
		}
		out = append(out, insights.FAQ{Question: q, Answer: a, URL: pageURL})
	})
	return out
}

// faqsFromHeadings scans question-marker class names and the h2/h3/h4
// headings, pairing each with the immediately following
// paragraph/div/section when its text is long enough.
func faqsFromHeadings(doc *goquery.Document, pageURL string) []insights.FAQ {
	var out []insights.FAQ
	doc.Find(faqQuestionSelectors).Each(func(_ int, h *goquery.Selection) {
		q := flatText(h)
		if q == "" {
			return
		}
		sib := h.Next()
		if sib.Length() == 0 || !sib.Is("p, div, section, article") {
			return
		}
		a := flatText(sib)
		if len(a) <= minAnswerLen {
			return
		}
		out = append(out, insights.FAQ{Question: q, Answer: a, URL: pageURL})
	})
	return out
}

func faqKey(f insights.FAQ) string {
	return strings.ToLower(truncate(f.Question, faqKeyPrefix)) + "\x00" +
		strings.ToLower(truncate(f.Answer, faqKeyPrefix))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
