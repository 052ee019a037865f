package keyword

import (
	"errors"
	"strings"
)

// Intent classifies the searcher's goal behind a query.
type Intent string

// Recognized search intents.
const (
	Informational Intent = "informational"
	Commercial    Intent = "commercial"
	Transactional Intent = "transactional"
	Navigational  Intent = "navigational"
)

// AllIntents returns the recognized intents in score order.
func AllIntents() []Intent {
	return []Intent{Informational, Commercial, Transactional, Navigational}
}

// ParseIntent maps a raw intent label from an export to the canonical enum.
// Matching is case-insensitive and ignores surrounding whitespace. Labels
// that match no intent fall back to Informational.
func ParseIntent(raw string) Intent {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "informational", "info":
		return Informational
	case "commercial":
		return Commercial
	case "transactional":
		return Transactional
	case "navigational":
		return Navigational
	default:
		return Informational
	}
}

// Category buckets a keyword by its opportunity score.
type Category string

// Opportunity categories.
const (
	CategoryHigh   Category = "high"
	CategoryMedium Category = "medium"
	CategoryLow    Category = "low"
)

// Keyword is one normalized row from a keyword research export, plus the
// fields derived by the scoring pass. Records are plain values: the
// normalizer creates them, the scorer fills the derived fields, and nothing
// downstream mutates them.
type Keyword struct {
	Text         string  // cleaned query text, never empty
	SearchVolume int     // monthly searches, >= 0
	Difficulty   float64 // ranking difficulty 0-100
	CPC          float64 // cost per click in USD, >= 0
	RawIntents   string  // intent cell as exported, "unknown" when absent
	Intent       Intent  // canonical intent parsed from RawIntents

	// Derived by the scorer; zero until a scoring pass runs.
	OpportunityScore float64
	Category         Category
	QuickWin         bool
}

// Validate checks the record against the field invariants.
func (k Keyword) Validate() error {
	if strings.TrimSpace(k.Text) == "" {
		return errors.New("keyword text is required")
	}

	if k.SearchVolume < 0 {
		return errors.New("search volume must be >= 0")
	}

	if k.Difficulty < 0 || k.Difficulty > 100 {
		return errors.New("difficulty must be within 0-100")
	}

	if k.CPC < 0 {
		return errors.New("cpc must be >= 0")
	}

	return nil
}
