package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/shopsight/insights/internal/insights"
)

// Category names one home-page extraction concern.
type Category string

// Home-page extraction categories, applied in this order.
const (
	CategorySocials  Category = "socials"
	CategoryContacts Category = "contacts"
	CategoryLinks    Category = "important_links"
	CategorySEO      Category = "seo"
)

// HomeFunc applies one extractor to the already-fetched home document
// and writes its slice of the aggregate.
type HomeFunc func(doc *goquery.Document, base string, out *insights.BrandContext)

// homeOrder fixes iteration order so assembly stays deterministic.
var homeOrder = []Category{CategorySocials, CategoryContacts, CategoryLinks, CategorySEO}

// homeFuncs is the function table keyed by content category. The
// extractors are independent; none touch the network.
var homeFuncs = map[Category]HomeFunc{
	CategorySocials: func(doc *goquery.Document, _ string, out *insights.BrandContext) {
		out.Socials = Socials(doc)
	},
	CategoryContacts: func(doc *goquery.Document, _ string, out *insights.BrandContext) {
		out.Contacts = Contacts(doc, out.Contacts.ContactPage)
	},
	CategoryLinks: func(doc *goquery.Document, base string, out *insights.BrandContext) {
		out.ImportantLinks = ImportantLinks(doc, base)
	},
	CategorySEO: func(doc *goquery.Document, _ string, out *insights.BrandContext) {
		out.SEO = SEO(doc)
	},
}

// ApplyHomeExtractors runs every home-page extractor against doc in the
// fixed category order.
func ApplyHomeExtractors(doc *goquery.Document, base string, out *insights.BrandContext) {
	for _, cat := range homeOrder {
		homeFuncs[cat](doc, base, out)
	}
}
