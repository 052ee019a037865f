package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/contentpeak/opplens/pkg/opplens/cluster"
	"github.com/contentpeak/opplens/pkg/opplens/internalerr"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/score"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigBuildsValidComponents(t *testing.T) {
	cfg := Default()

	if _, err := score.NewScorer(cfg.ScorerOptions()); err != nil {
		t.Errorf("Default scorer options should validate: %v", err)
	}

	if _, err := cluster.NewClusterer(cfg.ClusterConfig()); err != nil {
		t.Errorf("Default cluster config should validate: %v", err)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeFile(t, "opplens.yaml", `weights:
  volume: 0.5
  difficulty: 0.2
  cpc: 0.2
  intent: 0.1

references:
  volume: 20000
  cpc: 15.0

intent_scores:
  informational: 90
  commercial: 100
  transactional: 70
  navigational: 30

category_thresholds:
  high: 75
  medium: 45

quick_win:
  max_difficulty: 30
  min_volume: 100

cluster:
  similarity_threshold: 0.4
  primary_min: 4
  primary_max: 8
  secondary_min: 2
  secondary_max: 6
  min_opportunity: 45

products:
  - widgetly
  - toolsy
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Weights.Volume != 0.5 {
		t.Errorf("Weights.Volume = %v, want 0.5", cfg.Weights.Volume)
	}
	if cfg.References.Volume != 20000 {
		t.Errorf("References.Volume = %v, want 20000", cfg.References.Volume)
	}
	if cfg.IntentScores["commercial"] != 100 {
		t.Errorf("IntentScores[commercial] = %v, want 100", cfg.IntentScores["commercial"])
	}
	if cfg.Thresholds.High != 75 || cfg.Thresholds.Medium != 45 {
		t.Errorf("Thresholds = %+v", cfg.Thresholds)
	}
	if cfg.Cluster.PrimaryMax != 8 {
		t.Errorf("Cluster.PrimaryMax = %d, want 8", cfg.Cluster.PrimaryMax)
	}
	if len(cfg.Products) != 2 {
		t.Errorf("Products = %v", cfg.Products)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeFile(t, "opplens.yaml", `category_thresholds:
  high: 80
  medium: 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Thresholds.High != 80 {
		t.Errorf("Thresholds.High = %v, want 80", cfg.Thresholds.High)
	}

	def := Default()
	if cfg.Weights != def.Weights {
		t.Errorf("Weights should keep defaults, got %+v", cfg.Weights)
	}
	if cfg.Cluster != def.Cluster {
		t.Errorf("Cluster should keep defaults, got %+v", cfg.Cluster)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "weights: [not: a: map")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

func TestScorerOptionsIntentKeysAreCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.IntentScores = map[string]float64{
		"Informational": 95,
		"COMMERCIAL":    85,
		"transactional": 75,
		"navigational":  65,
	}

	opts := cfg.ScorerOptions()
	if opts.IntentScores[keyword.Informational] != 95 {
		t.Errorf("Informational = %v, want 95", opts.IntentScores[keyword.Informational])
	}
	if opts.IntentScores[keyword.Commercial] != 85 {
		t.Errorf("Commercial = %v, want 85", opts.IntentScores[keyword.Commercial])
	}
}

func TestClusterConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Cluster = Cluster{
		SimilarityThreshold: 0.5,
		PrimaryMin:          3,
		PrimaryMax:          6,
		SecondaryMin:        2,
		SecondaryMax:        4,
		MinOpportunity:      55,
	}

	cc := cfg.ClusterConfig()
	want := cluster.Config{
		SimilarityThreshold: 0.5,
		Primary:             cluster.Range{Min: 3, Max: 6},
		Secondary:           cluster.Range{Min: 2, Max: 4},
		MinOpportunity:      55,
	}
	if cc != want {
		t.Errorf("ClusterConfig = %+v, want %+v", cc, want)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, "networks.yaml", `networks:
  - name: AlphaNet
    category: saas
    commission: High
    rating: 4.5
    formats:
      - tool-review
      - comparison-post
    keywords:
      - crm
      - sales
    intents:
      - Commercial
  - name: BetaReach
    category: marketing
    commission: medium
    rating: 3.5
    formats:
      - list-article
    keywords:
      - email
    intents:
      - commercial
      - transactional
`)

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if cat.Len() != 2 {
		t.Fatalf("Expected 2 networks, got %d", cat.Len())
	}

	nets := cat.Networks()
	if nets[0].Name != "AlphaNet" {
		t.Errorf("Name = %q", nets[0].Name)
	}
	if nets[0].Commission != "high" {
		t.Errorf("Commission = %q, want lowercased high", nets[0].Commission)
	}
	if len(nets[0].FormatAffinities) != 2 {
		t.Errorf("FormatAffinities = %v", nets[0].FormatAffinities)
	}
	if nets[1].IntentAffinities[1] != keyword.Transactional {
		t.Errorf("IntentAffinities = %v", nets[1].IntentAffinities)
	}
}

func TestLoadCatalogRejectsBadRating(t *testing.T) {
	path := writeFile(t, "networks.yaml", `networks:
  - name: Broken
    rating: 9.9
`)

	_, err := LoadCatalog(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadCatalogRejectsEmpty(t *testing.T) {
	path := writeFile(t, "networks.yaml", "networks: []\n")

	_, err := LoadCatalog(path)
	if !errors.Is(err, internalerr.ErrEmptyCatalog) {
		t.Fatalf("Expected ErrEmptyCatalog, got %v", err)
	}
}
