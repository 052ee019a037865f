// Package cluster groups scored keywords into thematic candidate groups
// ("raw ideas") using deterministic token-overlap similarity.
package cluster

import (
	"fmt"
	"sort"

	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/token"
)

// Range bounds a member count.
type Range struct {
	Min int
	Max int
}

// Config controls clustering. MinOpportunity filters the candidate pool
// before any grouping; 0 admits every scored keyword.
type Config struct {
	SimilarityThreshold float64
	Primary             Range
	Secondary           Range
	MinOpportunity      float64
}

// DefaultConfig returns the standard clustering parameters. The candidate
// filter admits medium-category keywords and above.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.3,
		Primary:             Range{Min: 5, Max: 10},
		Secondary:           Range{Min: 3, Max: 8},
		MinOpportunity:      40,
	}
}

// RawIdea is one cluster's output. All fields are indices into the keyword
// slice passed to Cluster; no metrics are computed at this stage.
type RawIdea struct {
	Seed      int
	Primary   []int
	Secondary []int
}

// Stats summarizes a clustering pass.
type Stats struct {
	Candidates     int // keywords admitted by the opportunity filter
	ClustersFormed int
	IdeasEmitted   int
	IdeasOmitted   int // clusters below the minimum member counts
}

// Clusterer groups scored keywords. Safe for concurrent use once built.
type Clusterer struct {
	cfg Config
	tok *token.Tokenizer
}

// NewClusterer validates cfg and builds a clusterer. A zero Config takes
// the defaults.
func NewClusterer(cfg Config) (*Clusterer, error) {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("%w: similarity threshold %g outside 0-1",
			internalerr.ErrInvalidConfig, cfg.SimilarityThreshold)
	}
	if err := checkRange("primary", cfg.Primary); err != nil {
		return nil, err
	}
	if err := checkRange("secondary", cfg.Secondary); err != nil {
		return nil, err
	}
	if cfg.MinOpportunity < 0 || cfg.MinOpportunity > 100 {
		return nil, fmt.Errorf("%w: minimum opportunity %g outside 0-100",
			internalerr.ErrInvalidConfig, cfg.MinOpportunity)
	}

	return &Clusterer{cfg: cfg, tok: token.Default()}, nil
}

func checkRange(name string, r Range) error {
	if r.Min < 1 || r.Max < r.Min {
		return fmt.Errorf("%w: %s range %d-%d is invalid", internalerr.ErrInvalidConfig, name, r.Min, r.Max)
	}
	return nil
}

// candidate carries the precomputed similarity inputs for one keyword.
type candidate struct {
	index     int // position in the input slice
	tokens    map[string]struct{}
	head      string
	multiWord bool
}

// Cluster groups the scored keywords into raw ideas. Grouping is greedy and
// deterministic: candidates are ordered by opportunity descending (text
// ascending on ties); the best unassigned keyword seeds a cluster and every
// later unassigned keyword joins it when its token set clears the Jaccard
// threshold against the seed, or when both are multi-word and share a head
// term. Clusters that cannot fill the minimum primary and secondary counts
// are dropped and counted in Stats.IdeasOmitted.
func (c *Clusterer) Cluster(keywords []keyword.Keyword) ([]RawIdea, Stats) {
	order := c.candidates(keywords)
	stats := Stats{Candidates: len(order)}

	assigned := make([]bool, len(order))
	var ideas []RawIdea

	for i := range order {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		seed := order[i]
		members := []int{seed.index}

		for j := i + 1; j < len(order); j++ {
			if assigned[j] {
				continue
			}
			if c.belongs(seed, order[j]) {
				assigned[j] = true
				members = append(members, order[j].index)
			}
		}

		stats.ClustersFormed++
		if idea, ok := c.splitMembers(seed.index, members); ok {
			ideas = append(ideas, idea)
			stats.IdeasEmitted++
		} else {
			stats.IdeasOmitted++
		}
	}

	return ideas, stats
}

// candidates filters and orders the clustering pool.
func (c *Clusterer) candidates(keywords []keyword.Keyword) []candidate {
	var order []candidate
	for i, k := range keywords {
		if k.OpportunityScore < c.cfg.MinOpportunity {
			continue
		}
		tokens := c.tok.Set(k.Text)
		order = append(order, candidate{
			index:     i,
			tokens:    tokens,
			head:      c.tok.HeadTerm(k.Text),
			multiWord: len(tokens) >= 2,
		})
	}

	sort.Slice(order, func(a, b int) bool {
		ka, kb := keywords[order[a].index], keywords[order[b].index]
		if ka.OpportunityScore != kb.OpportunityScore {
			return ka.OpportunityScore > kb.OpportunityScore
		}
		return ka.Text < kb.Text
	})

	return order
}

// belongs decides whether cand joins seed's cluster.
func (c *Clusterer) belongs(seed, cand candidate) bool {
	if jaccard(seed.tokens, cand.tokens) >= c.cfg.SimilarityThreshold {
		return true
	}
	return seed.multiWord && cand.multiWord && seed.head != "" && seed.head == cand.head
}

// splitMembers carves an ordered member list into primary and secondary
// selections. Members arrive sorted by opportunity, so the split preserves
// rank. Primary takes as many members as the range allows while reserving
// the secondary minimum.
func (c *Clusterer) splitMembers(seed int, members []int) (RawIdea, bool) {
	primaryCount := len(members) - c.cfg.Secondary.Min
	if primaryCount > c.cfg.Primary.Max {
		primaryCount = c.cfg.Primary.Max
	}
	if primaryCount < c.cfg.Primary.Min {
		return RawIdea{}, false
	}

	secondaryCount := len(members) - primaryCount
	if secondaryCount > c.cfg.Secondary.Max {
		secondaryCount = c.cfg.Secondary.Max
	}
	if secondaryCount < c.cfg.Secondary.Min {
		return RawIdea{}, false
	}

	return RawIdea{
		Seed:      seed,
		Primary:   members[:primaryCount],
		Secondary: members[primaryCount : primaryCount+secondaryCount],
	}, true
}

// jaccard computes set similarity over token membership maps. Two empty
// sets count as identical.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
