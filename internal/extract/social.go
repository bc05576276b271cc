package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsight/insights/internal/insights"
)

// socialDomains maps each known network's domain to its platform value.
// Checked in a fixed order so twitter.com and x.com remain distinct
// platforms deterministically.
var socialDomains = []struct {
	platform insights.SocialPlatform
	domain   string
}{
	{insights.SocialInstagram, "instagram.com"},
	{insights.SocialFacebook, "facebook.com"},
	{insights.SocialTikTok, "tiktok.com"},
	{insights.SocialTwitter, "twitter.com"},
	{insights.SocialX, "x.com"},
	{insights.SocialYouTube, "youtube.com"},
	{insights.SocialPinterest, "pinterest.com"},
	{insights.SocialLinkedIn, "linkedin.com"},
}

// Socials scans anchors for known social-network domains. The handle is
// the first non-empty path segment, best-effort. The first match per
// platform in document order wins.
func Socials(doc *goquery.Document) []insights.Social {
	seen := insights.NewOrderedSet()
	var out []insights.Social

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		for _, entry := range socialDomains {
			if !strings.Contains(href, entry.domain) {
				continue
			}
			if !seen.Add(string(entry.platform), href) {
				continue
			}
			out = append(out, insights.Social{
				Platform: entry.platform,
				URL:      href,
				Handle:   socialHandle(href),
			})
		}
	})
	return out
}

func socialHandle(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	return strings.SplitN(path, "/", 2)[0]
}
