package affiliate

import (
	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
)

// DefaultCatalog returns the built-in network catalog. Callers needing a
// different catalog load one from YAML via the config package or build
// their own with NewCatalog.
func DefaultCatalog() Catalog {
	return Catalog{networks: defaultNetworks()}
}

func defaultNetworks() []Network {
	return []Network{
		{
			Name:       "Amazon Associates",
			Category:   "ecommerce",
			Commission: CommissionLow,
			Rating:     4.2,
			FormatAffinities: []classify.Format{
				classify.FormatToolReview, classify.FormatListArticle,
			},
			AffinityKeywords: []string{
				"products", "tools", "gear", "equipment", "accessories", "kitchen", "home office",
			},
			IntentAffinities: []keyword.Intent{keyword.Commercial, keyword.Transactional},
		},
		{
			Name:       "ShareASale",
			Category:   "marketing",
			Commission: CommissionMedium,
			Rating:     4.0,
			FormatAffinities: []classify.Format{
				classify.FormatListArticle, classify.FormatHowToGuide,
			},
			AffinityKeywords: []string{
				"marketing", "email", "seo", "blogging", "wordpress", "themes", "plugins",
			},
			IntentAffinities: []keyword.Intent{keyword.Commercial},
		},
		{
			Name:       "CJ Affiliate",
			Category:   "software",
			Commission: CommissionMedium,
			Rating:     4.1,
			FormatAffinities: []classify.Format{
				classify.FormatComparisonPost, classify.FormatToolReview,
			},
			AffinityKeywords: []string{
				"software", "apps", "platform", "subscription", "services",
			},
			IntentAffinities: []keyword.Intent{keyword.Commercial, keyword.Transactional},
		},
		{
			Name:       "Impact",
			Category:   "saas",
			Commission: CommissionHigh,
			Rating:     4.4,
			FormatAffinities: []classify.Format{
				classify.FormatToolReview, classify.FormatComparisonPost,
			},
			AffinityKeywords: []string{
				"saas", "software", "automation", "analytics", "hosting", "vpn",
			},
			IntentAffinities: []keyword.Intent{keyword.Commercial},
		},
		{
			Name:       "PartnerStack",
			Category:   "b2b saas",
			Commission: CommissionHigh,
			Rating:     4.6,
			FormatAffinities: []classify.Format{
				classify.FormatToolReview, classify.FormatComparisonPost, classify.FormatListArticle,
			},
			AffinityKeywords: []string{
				"crm", "project management", "marketing", "sales", "software", "tools", "team",
			},
			IntentAffinities: []keyword.Intent{keyword.Commercial, keyword.Transactional},
		},
		{
			Name:       "ClickBank",
			Category:   "digital products",
			Commission: CommissionHigh,
			Rating:     3.8,
			FormatAffinities: []classify.Format{
				classify.FormatHowToGuide, classify.FormatBeginnerGuide,
			},
			AffinityKeywords: []string{
				"course", "guide", "training", "learn", "fitness", "diet",
			},
			IntentAffinities: []keyword.Intent{keyword.Informational, keyword.Transactional},
		},
		{
			Name:       "Rakuten Advertising",
			Category:   "retail",
			Commission: CommissionMedium,
			Rating:     3.9,
			FormatAffinities: []classify.Format{
				classify.FormatListArticle,
			},
			AffinityKeywords: []string{
				"shopping", "deals", "fashion", "travel", "electronics",
			},
			IntentAffinities: []keyword.Intent{keyword.Transactional},
		},
		{
			Name:       "FlexOffers",
			Category:   "general",
			Commission: CommissionMedium,
			Rating:     3.6,
			FormatAffinities: []classify.Format{
				classify.FormatListArticle, classify.FormatComparisonPost,
			},
			AffinityKeywords: []string{
				"finance", "insurance", "credit", "loans", "hosting", "legal",
			},
			IntentAffinities: []keyword.Intent{keyword.Commercial},
		},
	}
}
