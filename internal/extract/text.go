// Package extract holds the stateless per-document extractors. Each
// function takes one parsed document plus the base URL and returns one
// typed result; none perform network calls.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`[ \t\r\f]+`)
var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// boilerplate selectors removed before readable-text extraction.
const boilerplateSelectors = "script, style, noscript, svg, iframe, nav, header, footer, form, button"

// ReadableText strips boilerplate from doc and returns the remaining
// visible text with collapsed whitespace. maxLen of 0 means unlimited.
func ReadableText(doc *goquery.Document, maxLen int) string {
	clone := goquery.CloneDocument(doc)
	clone.Find(boilerplateSelectors).Remove()

	root := clone.Find("main").First()
	if root.Length() == 0 {
		root = clone.Find("body").First()
	}
	if root.Length() == 0 {
		return ""
	}

	var lines []string
	for _, raw := range strings.Split(root.Text(), "\n") {
		line := whitespaceRe.ReplaceAllString(raw, " ")
		lines = append(lines, strings.TrimSpace(line))
	}
	text := strings.TrimSpace(blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
	if maxLen > 0 && len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// flatText returns a selection's text with single-space separators.
func flatText(s *goquery.Selection) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ReplaceAll(s.Text(), "\n", " "), " "))
}
