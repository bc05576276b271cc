// Package insights defines the core record types shared across the
// discovery and extraction subsystems.
package insights

import (
	"time"
)

// PolicyKind identifies the category of a storefront policy page.
type PolicyKind string

// Policy kinds persisted on a brand profile.
const (
	PolicyPrivacy  PolicyKind = "privacy"
	PolicyRefund   PolicyKind = "refund"
	PolicyReturn   PolicyKind = "return"
	PolicyShipping PolicyKind = "shipping"
	PolicyTerms    PolicyKind = "terms"
	PolicyFAQ      PolicyKind = "faq"
	PolicyWarranty PolicyKind = "warranty"
	PolicyPayment  PolicyKind = "payment"
)

// SocialPlatform identifies a known social network.
type SocialPlatform string

// Social platforms recognized by the social-link extractor.
const (
	SocialInstagram SocialPlatform = "instagram"
	SocialFacebook  SocialPlatform = "facebook"
	SocialTikTok    SocialPlatform = "tiktok"
	SocialTwitter   SocialPlatform = "twitter"
	SocialX         SocialPlatform = "x"
	SocialYouTube   SocialPlatform = "youtube"
	SocialPinterest SocialPlatform = "pinterest"
	SocialLinkedIn  SocialPlatform = "linkedin"
)

// Variant is one purchasable variation of a product.
type Variant struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Price     *float64 `json:"price"`
	Available bool     `json:"available"`
	SKU       string   `json:"sku,omitempty"`
	CompareAt *float64 `json:"compare_at_price,omitempty"`
}

// Product is a normalized catalog entry. When the record came from a
// page scrape rather than the listing endpoint, Handle may be empty but
// URL is always populated.
type Product struct {
	Handle   string         `json:"handle,omitempty"`
	Title    string         `json:"title,omitempty"`
	URL      string         `json:"url,omitempty"`
	Images   []string       `json:"images,omitempty"`
	Price    *float64       `json:"price"`
	Currency string         `json:"currency,omitempty"`
	SKUs     []string       `json:"sku,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Variants []Variant      `json:"variants,omitempty"`
	Raw      map[string]any `json:"-"`
}

// Policy holds one extracted policy page. At most one Policy per kind
// survives into the final aggregate.
type Policy struct {
	Kind        PolicyKind `json:"type"`
	URL         string     `json:"url"`
	ContentHTML string     `json:"content_html,omitempty"`
	ContentText string     `json:"content_text,omitempty"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	URL      string `json:"url,omitempty"`
}

// Social is one social-network reference discovered on the storefront.
type Social struct {
	Platform SocialPlatform `json:"platform"`
	URL      string         `json:"url"`
	Handle   string         `json:"handle,omitempty"`
}

// ContactInfo aggregates contact channels scraped from the storefront.
type ContactInfo struct {
	Emails      []string `json:"emails"`
	Phones      []string `json:"phones"`
	ContactPage string   `json:"contact_page,omitempty"`
}

// ImportantLinks holds at most one link per well-known category plus an
// "others" bucket of secondary matches.
type ImportantLinks struct {
	OrderTracking string   `json:"order_tracking,omitempty"`
	ContactUs     string   `json:"contact_us,omitempty"`
	Blogs         string   `json:"blogs,omitempty"`
	Sitemap       string   `json:"sitemap,omitempty"`
	Others        []string `json:"others,omitempty"`
}

// SEOMetadata captures page-level SEO signals from the home page.
type SEOMetadata struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	OpenGraph   map[string]string `json:"og,omitempty"`
}

// PriceInsights summarizes catalog pricing. Empty when no product in
// the catalog carries a price.
type PriceInsights struct {
	AveragePrice   float64 `json:"average_price"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
	AvgDiscountPct float64 `json:"avg_discount_pct"`
	ProductsOnSale int     `json:"products_on_sale"`
	TotalProducts  int     `json:"total_products"`
	TotalVariants  int     `json:"total_variants"`
}

// IsZero reports whether no pricing signal was found.
func (p PriceInsights) IsZero() bool {
	return p.TotalProducts == 0
}

// BrandContext is the aggregate produced by one pipeline run. It is
// assembled once at the end of a run and never mutated afterward.
type BrandContext struct {
	Website        string            `json:"website"`
	BrandName      string            `json:"brand_name,omitempty"`
	AboutText      string            `json:"about_text,omitempty"`
	HeroProducts   []Product         `json:"hero_products"`
	ProductCatalog []Product         `json:"product_catalog"`
	Policies       []Policy          `json:"policies"`
	FAQs           []FAQ             `json:"faqs"`
	Socials        []Social          `json:"socials"`
	Contacts       ContactInfo       `json:"contacts"`
	ImportantLinks ImportantLinks    `json:"important_links"`
	SEO            SEOMetadata       `json:"seo"`
	PriceInsights  PriceInsights     `json:"price_insights"`
	FetchedAt      time.Time         `json:"fetched_at"`
	Meta           map[string]string `json:"meta,omitempty"`
}

// CompetitorResult pairs one discovered competitor site with its
// extracted profile.
type CompetitorResult struct {
	Website  string        `json:"website"`
	Insights *BrandContext `json:"insights"`
}

// CompetitorReport is returned by the competitor fan-out entry point.
type CompetitorReport struct {
	Source          string             `json:"source"`
	CompetitorsSeen int                `json:"competitors_found"`
	Results         []CompetitorResult `json:"results"`
}
