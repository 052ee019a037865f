package idea

import (
	"math"
	"strings"
	"testing"

	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/cluster"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/score"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	scorer, err := score.NewScorer(score.DefaultOptions())
	if err != nil {
		t.Fatalf("NewScorer: %v", err)
	}
	return NewBuilder(classify.NewClassifier(nil), scorer)
}

func testKeywords() []keyword.Keyword {
	return []keyword.Keyword{
		{Text: "best project management tools", SearchVolume: 12000, Difficulty: 35, CPC: 4.5, OpportunityScore: 78.5},
		{Text: "project management software", SearchVolume: 8000, Difficulty: 40, CPC: 3.0, OpportunityScore: 70},
		{Text: "free project management", SearchVolume: 2000, Difficulty: 20, CPC: 1.0, OpportunityScore: 60},
	}
}

func testRaw() cluster.RawIdea {
	return cluster.RawIdea{Seed: 0, Primary: []int{0, 1}, Secondary: []int{2}}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildAggregatesMetrics(t *testing.T) {
	b := testBuilder(t)
	keywords := testKeywords()

	idea := b.Build(testRaw(), keywords)

	if idea.TotalSearchVolume != 22000 {
		t.Errorf("TotalSearchVolume = %d, want 22000", idea.TotalSearchVolume)
	}

	wantDiff := (35.0 + 40.0 + 20.0) / 3.0
	if !almostEqual(idea.AvgDifficulty, wantDiff) {
		t.Errorf("AvgDifficulty = %v, want %v", idea.AvgDifficulty, wantDiff)
	}

	wantCPC := (4.5 + 3.0 + 1.0) / 3.0
	if !almostEqual(idea.AvgCPC, wantCPC) {
		t.Errorf("AvgCPC = %v, want %v", idea.AvgCPC, wantCPC)
	}

	// 0.6 * mean(primary) + 0.4 * mean(secondary).
	wantSEO := 0.6*((78.5+70)/2) + 0.4*60
	if !almostEqual(idea.SEOScore, wantSEO) {
		t.Errorf("SEOScore = %v, want %v", idea.SEOScore, wantSEO)
	}

	// Volume 22000 saturates the volume scale at 100.
	wantTraffic := 100 - 0.3*wantDiff
	if !almostEqual(idea.TrafficScore, wantTraffic) {
		t.Errorf("TrafficScore = %v, want %v", idea.TrafficScore, wantTraffic)
	}
}

func TestBuildKeywordMembership(t *testing.T) {
	b := testBuilder(t)
	keywords := testKeywords()

	idea := b.Build(testRaw(), keywords)

	if len(idea.PrimaryKeywords) != 2 || len(idea.SecondaryKeywords) != 1 {
		t.Fatalf("Member counts: %d primary, %d secondary",
			len(idea.PrimaryKeywords), len(idea.SecondaryKeywords))
	}

	if idea.PrimaryKeywords[0].Text != "best project management tools" {
		t.Errorf("Top primary = %q", idea.PrimaryKeywords[0].Text)
	}
	if idea.SecondaryKeywords[0].Text != "free project management" {
		t.Errorf("Secondary = %q", idea.SecondaryKeywords[0].Text)
	}

	sum := 0
	for _, k := range idea.PrimaryKeywords {
		sum += k.SearchVolume
	}
	for _, k := range idea.SecondaryKeywords {
		sum += k.SearchVolume
	}
	if sum != idea.TotalSearchVolume {
		t.Errorf("TotalSearchVolume %d != member sum %d", idea.TotalSearchVolume, sum)
	}
}

func TestBuildFormatAndTitleFromTopPrimary(t *testing.T) {
	b := testBuilder(t)
	keywords := testKeywords()

	idea := b.Build(testRaw(), keywords)

	if idea.Format != classify.FormatListArticle {
		t.Errorf("Format = %q, want list-article", idea.Format)
	}

	if idea.Title != "Best Project Management Tools: Top Picks Ranked" {
		t.Errorf("Title = %q", idea.Title)
	}
}

func TestBuildHowToTemplate(t *testing.T) {
	b := testBuilder(t)
	keywords := []keyword.Keyword{
		{Text: "how to use trello", SearchVolume: 5000, Difficulty: 10, OpportunityScore: 80},
		{Text: "how to use trello boards", SearchVolume: 800, Difficulty: 8, OpportunityScore: 60},
		{Text: "how to use trello for teams", SearchVolume: 400, Difficulty: 12, OpportunityScore: 55},
	}
	raw := cluster.RawIdea{Seed: 0, Primary: []int{0, 1}, Secondary: []int{2}}

	idea := b.Build(raw, keywords)

	if idea.Format != classify.FormatHowToGuide {
		t.Errorf("Format = %q, want how-to-guide", idea.Format)
	}
	if idea.Title != "How To Use Trello: Step-by-Step Guide" {
		t.Errorf("Title = %q", idea.Title)
	}
	if !strings.Contains(idea.Outline, "Step-by-Step Instructions") {
		t.Errorf("Outline missing how-to section: %q", idea.Outline)
	}
}

func TestBuildTipsAreBoundedAndSubstituted(t *testing.T) {
	b := testBuilder(t)
	keywords := testKeywords()

	idea := b.Build(testRaw(), keywords)

	if len(idea.Tips) < 3 || len(idea.Tips) > 5 {
		t.Fatalf("Tips count = %d, want 3-5", len(idea.Tips))
	}

	substituted := false
	for _, tip := range idea.Tips {
		if strings.Contains(tip, "%s") {
			t.Errorf("Unsubstituted placeholder in tip: %q", tip)
		}
		if strings.Contains(tip, "best project management tools") {
			substituted = true
		}
	}
	if !substituted {
		t.Error("No tip mentions the top primary keyword")
	}
}

func TestBuildOutlinePerFormatIsDistinct(t *testing.T) {
	b := testBuilder(t)

	mk := func(text string) []keyword.Keyword {
		return []keyword.Keyword{{Text: text, SearchVolume: 100, OpportunityScore: 50}}
	}
	raw := cluster.RawIdea{Seed: 0, Primary: []int{0}}

	review := b.Build(raw, mk("trello review"))
	comparison := b.Build(raw, mk("asana vs trello"))

	if review.Outline == comparison.Outline {
		t.Error("Different formats should produce different outlines")
	}
	if !strings.Contains(review.Outline, "Pros and Cons") {
		t.Errorf("Review outline = %q", review.Outline)
	}
}

func TestBuildIDsAreUniqueAndSortable(t *testing.T) {
	b := testBuilder(t)
	keywords := testKeywords()

	first := b.Build(testRaw(), keywords)
	second := b.Build(testRaw(), keywords)

	if len(first.ID) != 26 {
		t.Errorf("ID %q is not a ULID", first.ID)
	}
	if first.ID == second.ID {
		t.Error("Consecutive builds should get distinct IDs")
	}
	if first.ID > second.ID {
		t.Error("Monotonic IDs should sort in build order")
	}
}

func TestBuildAllPreservesOrder(t *testing.T) {
	b := testBuilder(t)
	keywords := []keyword.Keyword{
		{Text: "how to use trello", OpportunityScore: 80},
		{Text: "trello tips", OpportunityScore: 60},
		{Text: "best crm software", OpportunityScore: 75},
		{Text: "crm pricing", OpportunityScore: 55},
	}
	raws := []cluster.RawIdea{
		{Seed: 0, Primary: []int{0}, Secondary: []int{1}},
		{Seed: 2, Primary: []int{2}, Secondary: []int{3}},
	}

	ideas := b.BuildAll(raws, keywords)
	if len(ideas) != 2 {
		t.Fatalf("Expected 2 ideas, got %d", len(ideas))
	}

	if ideas[0].Format != classify.FormatHowToGuide {
		t.Errorf("First idea format = %q", ideas[0].Format)
	}
	if ideas[1].Format != classify.FormatListArticle {
		t.Errorf("Second idea format = %q", ideas[1].Format)
	}
}

func TestBuildScoresStayInRange(t *testing.T) {
	b := testBuilder(t)

	keywords := []keyword.Keyword{
		{Text: "impossible keyword", SearchVolume: 0, Difficulty: 100, OpportunityScore: 0},
		{Text: "impossible keyword two", SearchVolume: 0, Difficulty: 100, OpportunityScore: 0},
	}
	raw := cluster.RawIdea{Seed: 0, Primary: []int{0}, Secondary: []int{1}}

	idea := b.Build(raw, keywords)

	// Traffic would be negative without clamping: 0 volume score minus the
	// difficulty drag.
	if idea.TrafficScore != 0 {
		t.Errorf("TrafficScore = %v, want clamped 0", idea.TrafficScore)
	}
	if idea.SEOScore < 0 || idea.SEOScore > 100 {
		t.Errorf("SEOScore out of range: %v", idea.SEOScore)
	}
}
