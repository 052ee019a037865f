// Package classify suggests a content format for a keyword using an ordered
// first-match-wins rule list.
package classify

import (
	"strings"

	"github.com/contentpeak/opplens/pkg/opplens/token"
)

// Format is a suggested content format.
type Format string

// Known content formats.
const (
	FormatHowToGuide     Format = "how-to-guide"
	FormatComparisonPost Format = "comparison-post"
	FormatListArticle    Format = "list-article"
	FormatBeginnerGuide  Format = "beginner-guide"
	FormatToolReview     Format = "tool-review"
)

// RulesVersion identifies the ordered rule list. Rule order is part of the
// classifier contract: reordering rules changes classifications, so any
// order change must bump this constant.
const RulesVersion = 1

// AllFormats returns the known formats.
func AllFormats() []Format {
	return []Format{
		FormatHowToGuide,
		FormatComparisonPost,
		FormatListArticle,
		FormatBeginnerGuide,
		FormatToolReview,
	}
}

// Classifier applies the format rules to keyword text. Safe for concurrent
// use once built.
type Classifier struct {
	tokenizer *token.Tokenizer
	folder    *token.PhraseFolder
	products  map[string]struct{}
}

// NewClassifier builds a classifier over the given product names. Nil
// products falls back to DefaultProducts. Multi-word names are matched as
// folded phrases.
func NewClassifier(products []string) *Classifier {
	if products == nil {
		products = DefaultProducts()
	}

	set := make(map[string]struct{}, len(products))
	var phrases []token.Phrase
	for _, p := range products {
		canonical := token.CanonicalToken(p)
		if canonical == "" {
			continue
		}
		set[canonical] = struct{}{}
		if strings.Contains(canonical, "-") {
			phrases = append(phrases, token.Phrase{Canonical: p})
		}
	}

	return &Classifier{
		tokenizer: token.Default(),
		folder:    token.NewPhraseFolder(phrases),
		products:  set,
	}
}

// DefaultProducts lists tool names commonly targeted by review content.
func DefaultProducts() []string {
	return []string{
		"ahrefs", "airtable", "asana", "basecamp", "calendly", "canva",
		"clickup", "convertkit", "figma", "google analytics", "hubspot",
		"jira", "mailchimp", "monday", "notion", "quickbooks",
		"salesforce", "semrush", "shopify", "slack", "squarespace",
		"surfer", "trello", "webflow", "wix", "wordpress", "zapier",
		"zendesk", "zoom",
	}
}

// Classify runs the ordered rules over the keyword text:
//
//  1. contains "how to"            -> how-to-guide
//  2. contains " vs " or "versus"  -> comparison-post
//  3. first word "best" or "top"   -> list-article
//  4. contains "beginner"          -> beginner-guide
//  5. has a known product token    -> tool-review
//  6. default                      -> list-article
func (c *Classifier) Classify(text string) Format {
	lower := strings.ToLower(strings.TrimSpace(text))

	if strings.Contains(lower, "how to") {
		return FormatHowToGuide
	}

	if strings.Contains(lower, " vs ") || strings.Contains(lower, "versus") {
		return FormatComparisonPost
	}

	if fields := strings.Fields(lower); len(fields) > 0 {
		if fields[0] == "best" || fields[0] == "top" {
			return FormatListArticle
		}
	}

	if strings.Contains(lower, "beginner") {
		return FormatBeginnerGuide
	}

	if c.hasProductToken(lower) {
		return FormatToolReview
	}

	return FormatListArticle
}

func (c *Classifier) hasProductToken(lower string) bool {
	tokens := c.folder.Fold(c.tokenizer.Tokenize(lower))
	for _, t := range tokens {
		if _, ok := c.products[t]; ok {
			return true
		}
	}
	return false
}
