package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsight/insights/internal/insights"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?(?:\(?\d{2,4}\)?[-.\s]?)?\d{3,4}[-.\s]?\d{3,4}`)
)

// minPhoneLen discards phone-like matches too short to be real numbers.
const minPhoneLen = 7

// Contacts scans the document's visible text for email and phone-like
// strings, plus explicit mailto:/tel: anchors. Results are deduplicated
// and sorted for determinism.
func Contacts(doc *goquery.Document, contactPage string) insights.ContactInfo {
	emails := make(map[string]struct{})
	phones := make(map[string]struct{})

	text := doc.Text()
	for _, m := range emailRe.FindAllString(text, -1) {
		emails[m] = struct{}{}
	}
	for _, m := range phoneRe.FindAllString(text, -1) {
		val := strings.TrimSpace(m)
		if len(val) >= minPhoneLen {
			phones[val] = struct{}{}
		}
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		switch {
		case strings.HasPrefix(href, "mailto:"):
			if addr := strings.TrimPrefix(href, "mailto:"); addr != "" {
				emails[addr] = struct{}{}
			}
		case strings.HasPrefix(href, "tel:"):
			if num := strings.TrimPrefix(href, "tel:"); len(num) >= minPhoneLen {
				phones[num] = struct{}{}
			}
		}
	})

	return insights.ContactInfo{
		Emails:      sortedKeys(emails),
		Phones:      sortedKeys(phones),
		ContactPage: contactPage,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
