// Package affiliate scores keywords against a static catalog of affiliate
// networks to suggest monetization matches.
package affiliate

import (
	"fmt"
	"sort"

	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/token"
)

// Commission is a network's payout band.
type Commission string

// Commission bands.
const (
	CommissionLow    Commission = "low"
	CommissionMedium Commission = "medium"
	CommissionHigh   Commission = "high"
)

// Network describes one affiliate program. Catalogs are built once and
// never mutated by the engine.
type Network struct {
	Name             string
	Category         string
	Commission       Commission
	Rating           float64 // 0-5
	FormatAffinities []classify.Format
	AffinityKeywords []string
	IntentAffinities []keyword.Intent
}

// Catalog is an immutable set of networks.
type Catalog struct {
	networks []Network
}

// NewCatalog validates the networks and freezes them into a catalog.
func NewCatalog(networks []Network) (Catalog, error) {
	if len(networks) == 0 {
		return Catalog{}, internalerr.ErrEmptyCatalog
	}

	for _, n := range networks {
		if n.Name == "" {
			return Catalog{}, fmt.Errorf("%w: network without a name", internalerr.ErrInvalidConfig)
		}
		if n.Rating < 0 || n.Rating > 5 {
			return Catalog{}, fmt.Errorf("%w: rating for %q out of 0-5", internalerr.ErrInvalidConfig, n.Name)
		}
	}

	frozen := make([]Network, len(networks))
	copy(frozen, networks)
	return Catalog{networks: frozen}, nil
}

// Networks returns a copy of the catalog entries.
func (c Catalog) Networks() []Network {
	out := make([]Network, len(c.networks))
	copy(out, c.networks)
	return out
}

// Len returns the number of networks in the catalog.
func (c Catalog) Len() int {
	return len(c.networks)
}

// Match is one scored keyword/network pairing.
type Match struct {
	Network    string
	ContentFit float64
	Relevance  float64
}

// Fixed bonus points for the match formulas.
const (
	ratingWeight         = 20
	formatAffinityBonus  = 20
	intentAffinityBonus  = 15
	volumeTierBonus      = 10
	volumeTierMin        = 1000
	commissionHighBonus  = 15
	commissionMedBonus   = 10
	tokenOverlapBonus    = 20
	tokenOverlapCap      = 80
	relevanceIntentBonus = 20

	// minContentFit drops weak fits; maxMatches caps results per keyword.
	minContentFit = 60
	maxMatches    = 3
)

// Matcher scores keywords against a catalog. Safe for concurrent use.
type Matcher struct {
	catalog   Catalog
	tokenizer *token.Tokenizer

	// Per-network lookup sets, parallel to catalog.networks.
	affinityTokens []map[string]struct{}
	formats        []map[classify.Format]struct{}
	intents        []map[keyword.Intent]struct{}
}

// NewMatcher precomputes per-network lookup sets over the catalog.
func NewMatcher(catalog Catalog) *Matcher {
	tok := token.Default()
	m := &Matcher{
		catalog:        catalog,
		tokenizer:      tok,
		affinityTokens: make([]map[string]struct{}, len(catalog.networks)),
		formats:        make([]map[classify.Format]struct{}, len(catalog.networks)),
		intents:        make([]map[keyword.Intent]struct{}, len(catalog.networks)),
	}

	for i, n := range catalog.networks {
		affinity := make(map[string]struct{})
		for _, kw := range n.AffinityKeywords {
			for _, t := range tok.Tokenize(kw) {
				affinity[t] = struct{}{}
			}
		}
		m.affinityTokens[i] = affinity

		formats := make(map[classify.Format]struct{}, len(n.FormatAffinities))
		for _, f := range n.FormatAffinities {
			formats[f] = struct{}{}
		}
		m.formats[i] = formats

		intents := make(map[keyword.Intent]struct{}, len(n.IntentAffinities))
		for _, it := range n.IntentAffinities {
			intents[it] = struct{}{}
		}
		m.intents[i] = intents
	}

	return m
}

// Match scores k against every network and returns the strongest pairings:
// ranked by ContentFit+Relevance descending (name ascending on ties),
// networks with ContentFit below 60 dropped, at most 3 returned. format is
// the keyword's classified content format.
func (m *Matcher) Match(k keyword.Keyword, format classify.Format) []Match {
	kwTokens := m.tokenizer.Set(k.Text)

	var matches []Match
	for i, n := range m.catalog.networks {
		fit := m.contentFit(i, n, k, format)
		if fit < minContentFit {
			continue
		}
		matches = append(matches, Match{
			Network:    n.Name,
			ContentFit: fit,
			Relevance:  m.relevance(i, k, kwTokens),
		})
	}

	sort.Slice(matches, func(a, b int) bool {
		ta := matches[a].ContentFit + matches[a].Relevance
		tb := matches[b].ContentFit + matches[b].Relevance
		if ta != tb {
			return ta > tb
		}
		return matches[a].Network < matches[b].Network
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches
}

// contentFit combines the network's rating with fixed bonuses for format,
// intent, volume tier, and commission band.
func (m *Matcher) contentFit(i int, n Network, k keyword.Keyword, format classify.Format) float64 {
	fit := n.Rating * ratingWeight

	if _, ok := m.formats[i][format]; ok {
		fit += formatAffinityBonus
	}
	if _, ok := m.intents[i][k.Intent]; ok {
		fit += intentAffinityBonus
	}
	if k.SearchVolume >= volumeTierMin {
		fit += volumeTierBonus
	}

	switch n.Commission {
	case CommissionHigh:
		fit += commissionHighBonus
	case CommissionMedium:
		fit += commissionMedBonus
	}

	return clamp(fit)
}

// relevance rewards distinct token overlap with the network's affinity
// keywords, capped, plus an intent-affinity bonus.
func (m *Matcher) relevance(i int, k keyword.Keyword, kwTokens map[string]struct{}) float64 {
	overlap := 0
	for t := range kwTokens {
		if _, ok := m.affinityTokens[i][t]; ok {
			overlap++
		}
	}

	bonus := float64(overlap * tokenOverlapBonus)
	if bonus > tokenOverlapCap {
		bonus = tokenOverlapCap
	}

	if _, ok := m.intents[i][k.Intent]; ok {
		bonus += relevanceIntentBonus
	}

	return clamp(bonus)
}

// clamp bounds v into the 0-100 score range.
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
