// Package idea turns raw keyword clusters into finished content ideas with
// aggregate metrics and deterministic guidance.
package idea

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"

	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/cluster"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/score"
)

// ContentIdea is a synthesized content opportunity: a keyword group with
// aggregate scores, a working title, and optimization guidance. Built once,
// never mutated.
type ContentIdea struct {
	ID                string
	Title             string
	Format            classify.Format
	PrimaryKeywords   []keyword.Keyword
	SecondaryKeywords []keyword.Keyword
	SEOScore          float64
	TrafficScore      float64
	TotalSearchVolume int
	AvgDifficulty     float64
	AvgCPC            float64
	Tips              []string
	Outline           string
}

// Weight of the primary vs secondary mean in the SEO score, and the
// difficulty drag on the traffic score.
const (
	seoPrimaryWeight   = 0.6
	seoSecondaryWeight = 0.4
	trafficDifficulty  = 0.3
)

// Builder assembles content ideas. The monotonic ULID source is not safe
// for concurrent use; build ideas from one goroutine.
type Builder struct {
	entropy    *ulid.MonotonicEntropy
	classifier *classify.Classifier
	scorer     *score.Scorer
}

// NewBuilder creates an idea builder. The classifier picks each idea's
// content format; the scorer supplies the volume scale for traffic
// potential.
func NewBuilder(classifier *classify.Classifier, scorer *score.Scorer) *Builder {
	return &Builder{
		entropy:    ulid.Monotonic(rand.Reader, 0),
		classifier: classifier,
		scorer:     scorer,
	}
}

// Build aggregates one raw cluster into a ContentIdea. raw is expected to
// satisfy the clusterer's member bounds; indices refer into keywords.
func (b *Builder) Build(raw cluster.RawIdea, keywords []keyword.Keyword) ContentIdea {
	primary := pick(keywords, raw.Primary)
	secondary := pick(keywords, raw.Secondary)

	totalVolume := 0
	diffSum, cpcSum := 0.0, 0.0
	for _, k := range primary {
		totalVolume += k.SearchVolume
		diffSum += k.Difficulty
		cpcSum += k.CPC
	}
	for _, k := range secondary {
		totalVolume += k.SearchVolume
		diffSum += k.Difficulty
		cpcSum += k.CPC
	}

	avgDifficulty, avgCPC := 0.0, 0.0
	if n := float64(len(primary) + len(secondary)); n > 0 {
		avgDifficulty = diffSum / n
		avgCPC = cpcSum / n
	}

	seo := clamp(seoPrimaryWeight*meanOpportunity(primary) + seoSecondaryWeight*meanOpportunity(secondary))
	traffic := clamp(b.scorer.VolumeScore(totalVolume) - trafficDifficulty*avgDifficulty)

	topPrimary := ""
	if len(primary) > 0 {
		topPrimary = primary[0].Text
	}
	format := b.classifier.Classify(topPrimary)
	tpl := formatTemplate(format)

	return ContentIdea{
		ID:                ulid.MustNew(ulid.Now(), b.entropy).String(),
		Title:             tpl.renderTitle(topPrimary),
		Format:            format,
		PrimaryKeywords:   primary,
		SecondaryKeywords: secondary,
		SEOScore:          seo,
		TrafficScore:      traffic,
		TotalSearchVolume: totalVolume,
		AvgDifficulty:     avgDifficulty,
		AvgCPC:            avgCPC,
		Tips:              tpl.renderTips(topPrimary),
		Outline:           tpl.renderOutline(topPrimary),
	}
}

// BuildAll aggregates every raw cluster, preserving cluster order.
func (b *Builder) BuildAll(raws []cluster.RawIdea, keywords []keyword.Keyword) []ContentIdea {
	ideas := make([]ContentIdea, 0, len(raws))
	for _, raw := range raws {
		ideas = append(ideas, b.Build(raw, keywords))
	}
	return ideas
}

func pick(keywords []keyword.Keyword, indices []int) []keyword.Keyword {
	out := make([]keyword.Keyword, 0, len(indices))
	for _, i := range indices {
		out = append(out, keywords[i])
	}
	return out
}

func meanOpportunity(keywords []keyword.Keyword) float64 {
	if len(keywords) == 0 {
		return 0
	}
	sum := 0.0
	for _, k := range keywords {
		sum += k.OpportunityScore
	}
	return sum / float64(len(keywords))
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
