// Package score computes weighted 0-100 opportunity scores for normalized
// keywords. Scoring is pure and idempotent: identical input and options
// always produce identical output.
package score

import (
	"fmt"
	"math"

	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
)

// Weights defines the share of each component in the opportunity score.
// The four shares must sum to 1.0.
type Weights struct {
	Volume     float64
	Difficulty float64
	CPC        float64
	Intent     float64
}

// DefaultWeights returns the standard component shares.
func DefaultWeights() Weights {
	return Weights{Volume: 0.4, Difficulty: 0.3, CPC: 0.2, Intent: 0.1}
}

// References anchor the linear component scales: a keyword at the reference
// volume or cpc earns the full 100 for that component.
type References struct {
	Volume float64
	CPC    float64
}

// DefaultReferences returns the standard scale anchors.
func DefaultReferences() References {
	return References{Volume: 10000, CPC: 10.0}
}

// IntentScores maps each search intent to its content-suitability score.
type IntentScores map[keyword.Intent]float64

// DefaultIntentScores ranks informational intent highest: informational
// queries are the easiest to serve with standalone content.
func DefaultIntentScores() IntentScores {
	return IntentScores{
		keyword.Informational: 100,
		keyword.Commercial:    80,
		keyword.Transactional: 60,
		keyword.Navigational:  40,
	}
}

// Thresholds set the category cut points: score >= High is high, score >=
// Medium is medium, everything below is low.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the standard 70/40 cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 70, Medium: 40}
}

// QuickWin bounds the low-difficulty, meaningful-volume flag. The flag is
// independent of category.
type QuickWin struct {
	MaxDifficulty float64
	MinVolume     int
}

// DefaultQuickWin returns the standard quick-win bounds.
func DefaultQuickWin() QuickWin {
	return QuickWin{MaxDifficulty: 25, MinVolume: 200}
}

// Options collects the scorer configuration. Zero-value fields fall back to
// their Default* counterparts.
type Options struct {
	Weights      Weights
	References   References
	IntentScores IntentScores
	Thresholds   Thresholds
	QuickWin     QuickWin
}

// DefaultOptions returns a fully populated default configuration.
func DefaultOptions() Options {
	return Options{
		Weights:      DefaultWeights(),
		References:   DefaultReferences(),
		IntentScores: DefaultIntentScores(),
		Thresholds:   DefaultThresholds(),
		QuickWin:     DefaultQuickWin(),
	}
}

// weightTolerance absorbs float accumulation when checking that weights sum
// to 1.0.
const weightTolerance = 1e-9

// Scorer calculates opportunity scores for keywords.
type Scorer struct {
	weights    Weights
	refs       References
	intents    IntentScores
	thresholds Thresholds
	quickWin   QuickWin
}

// NewScorer validates the options and builds a scorer. Invalid options fail
// with an error wrapping internalerr.ErrInvalidConfig before any keyword is
// processed.
func NewScorer(opts Options) (*Scorer, error) {
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	if opts.References == (References{}) {
		opts.References = DefaultReferences()
	}
	if opts.IntentScores == nil {
		opts.IntentScores = DefaultIntentScores()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.QuickWin == (QuickWin{}) {
		opts.QuickWin = DefaultQuickWin()
	}

	if err := validate(opts); err != nil {
		return nil, err
	}

	return &Scorer{
		weights:    opts.Weights,
		refs:       opts.References,
		intents:    opts.IntentScores,
		thresholds: opts.Thresholds,
		quickWin:   opts.QuickWin,
	}, nil
}

func validate(opts Options) error {
	w := opts.Weights
	if w.Volume < 0 || w.Difficulty < 0 || w.CPC < 0 || w.Intent < 0 {
		return fmt.Errorf("%w: component weights must be >= 0", internalerr.ErrInvalidConfig)
	}

	sum := w.Volume + w.Difficulty + w.CPC + w.Intent
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %g, want 1.0", internalerr.ErrInvalidConfig, sum)
	}

	if opts.References.Volume <= 0 || opts.References.CPC <= 0 {
		return fmt.Errorf("%w: references must be positive", internalerr.ErrInvalidConfig)
	}

	th := opts.Thresholds
	if th.Medium < 0 || th.High > 100 || th.Medium > th.High {
		return fmt.Errorf("%w: thresholds inverted or out of range (high=%g medium=%g)",
			internalerr.ErrInvalidConfig, th.High, th.Medium)
	}

	for intent, v := range opts.IntentScores {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: intent score for %q out of range", internalerr.ErrInvalidConfig, intent)
		}
	}

	qw := opts.QuickWin
	if qw.MaxDifficulty < 0 || qw.MaxDifficulty > 100 || qw.MinVolume < 0 {
		return fmt.Errorf("%w: quick-win bounds out of range", internalerr.ErrInvalidConfig)
	}

	return nil
}

// Breakdown exposes the weighted contribution of each component.
type Breakdown struct {
	Volume     float64
	Difficulty float64
	CPC        float64
	Intent     float64
	Total      float64
}

// Score returns a copy of k with OpportunityScore, Category, and QuickWin
// filled in. The input record is not modified.
func (s *Scorer) Score(k keyword.Keyword) keyword.Keyword {
	scored, _ := s.ScoreWithBreakdown(k)
	return scored
}

// ScoreWithBreakdown scores k and reports the per-component contributions.
func (s *Scorer) ScoreWithBreakdown(k keyword.Keyword) (keyword.Keyword, Breakdown) {
	breakdown := Breakdown{
		Volume:     s.weights.Volume * s.VolumeScore(k.SearchVolume),
		Difficulty: s.weights.Difficulty * (100 - k.Difficulty),
		CPC:        s.weights.CPC * s.cpcScore(k.CPC),
		Intent:     s.weights.Intent * s.intentScore(k.Intent),
	}
	breakdown.Total = clamp(breakdown.Volume + breakdown.Difficulty + breakdown.CPC + breakdown.Intent)

	k.OpportunityScore = breakdown.Total
	k.Category = s.Categorize(breakdown.Total)
	k.QuickWin = s.IsQuickWin(k)

	return k, breakdown
}

// ScoreAll scores a batch, preserving input order.
func (s *Scorer) ScoreAll(keywords []keyword.Keyword) []keyword.Keyword {
	scored := make([]keyword.Keyword, len(keywords))
	for i, k := range keywords {
		scored[i] = s.Score(k)
	}
	return scored
}

// VolumeScore scales a search volume linearly against the volume reference
// and clamps to 0-100. Exposed because idea aggregation reuses the same
// scale for cluster-level volume.
func (s *Scorer) VolumeScore(volume int) float64 {
	return clamp(float64(volume) / s.refs.Volume * 100)
}

func (s *Scorer) cpcScore(cpc float64) float64 {
	return clamp(cpc / s.refs.CPC * 100)
}

func (s *Scorer) intentScore(intent keyword.Intent) float64 {
	if v, ok := s.intents[intent]; ok {
		return v
	}
	return s.intents[keyword.Informational]
}

// Categorize buckets an opportunity score by the configured thresholds.
func (s *Scorer) Categorize(opportunity float64) keyword.Category {
	switch {
	case opportunity >= s.thresholds.High:
		return keyword.CategoryHigh
	case opportunity >= s.thresholds.Medium:
		return keyword.CategoryMedium
	default:
		return keyword.CategoryLow
	}
}

// IsQuickWin reports whether k clears the quick-win bounds.
func (s *Scorer) IsQuickWin(k keyword.Keyword) bool {
	return k.Difficulty <= s.quickWin.MaxDifficulty && k.SearchVolume >= s.quickWin.MinVolume
}

// MediumThreshold returns the configured medium cut point. The clusterer
// uses it as its default candidate filter.
func (s *Scorer) MediumThreshold() float64 {
	return s.thresholds.Medium
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
