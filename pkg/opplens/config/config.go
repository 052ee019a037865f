// Package config defines the engine configuration surface and its YAML
// loaders. Configuration is always an explicit value handed to the engine,
// never ambient state.
package config

import (
	"strings"

	"github.com/contentpeak/opplens/pkg/opplens/cluster"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
	"github.com/contentpeak/opplens/pkg/opplens/score"
)

// Weights mirrors score.Weights for YAML.
type Weights struct {
	Volume     float64 `yaml:"volume"`
	Difficulty float64 `yaml:"difficulty"`
	CPC        float64 `yaml:"cpc"`
	Intent     float64 `yaml:"intent"`
}

// References mirrors score.References for YAML.
type References struct {
	Volume float64 `yaml:"volume"`
	CPC    float64 `yaml:"cpc"`
}

// Thresholds mirrors score.Thresholds for YAML.
type Thresholds struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

// QuickWin mirrors score.QuickWin for YAML.
type QuickWin struct {
	MaxDifficulty float64 `yaml:"max_difficulty"`
	MinVolume     int     `yaml:"min_volume"`
}

// Cluster mirrors cluster.Config for YAML.
type Cluster struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	PrimaryMin          int     `yaml:"primary_min"`
	PrimaryMax          int     `yaml:"primary_max"`
	SecondaryMin        int     `yaml:"secondary_min"`
	SecondaryMax        int     `yaml:"secondary_max"`
	MinOpportunity      float64 `yaml:"min_opportunity"`
}

// Config is the full engine configuration.
type Config struct {
	Weights      Weights            `yaml:"weights"`
	References   References         `yaml:"references"`
	IntentScores map[string]float64 `yaml:"intent_scores"`
	Thresholds   Thresholds         `yaml:"category_thresholds"`
	QuickWin     QuickWin           `yaml:"quick_win"`
	Cluster      Cluster            `yaml:"cluster"`
	Products     []string           `yaml:"products"` // classifier product names; empty keeps the built-ins
}

// Default returns the standard configuration. The cluster filter admits
// keywords at or above the medium category threshold.
func Default() Config {
	w := score.DefaultWeights()
	r := score.DefaultReferences()
	th := score.DefaultThresholds()
	qw := score.DefaultQuickWin()
	cl := cluster.DefaultConfig()

	intents := make(map[string]float64)
	for intent, v := range score.DefaultIntentScores() {
		intents[string(intent)] = v
	}

	return Config{
		Weights:      Weights{Volume: w.Volume, Difficulty: w.Difficulty, CPC: w.CPC, Intent: w.Intent},
		References:   References{Volume: r.Volume, CPC: r.CPC},
		IntentScores: intents,
		Thresholds:   Thresholds{High: th.High, Medium: th.Medium},
		QuickWin:     QuickWin{MaxDifficulty: qw.MaxDifficulty, MinVolume: qw.MinVolume},
		Cluster: Cluster{
			SimilarityThreshold: cl.SimilarityThreshold,
			PrimaryMin:          cl.Primary.Min,
			PrimaryMax:          cl.Primary.Max,
			SecondaryMin:        cl.Secondary.Min,
			SecondaryMax:        cl.Secondary.Max,
			MinOpportunity:      cl.MinOpportunity,
		},
		Products: nil,
	}
}

// ScorerOptions converts the configuration into scorer options. Intent keys
// are matched case-insensitively; an empty table leaves the scorer on its
// defaults.
func (c Config) ScorerOptions() score.Options {
	var intents score.IntentScores
	if len(c.IntentScores) > 0 {
		intents = make(score.IntentScores, len(c.IntentScores))
		for k, v := range c.IntentScores {
			intents[keyword.Intent(strings.ToLower(k))] = v
		}
	}

	return score.Options{
		Weights:      score.Weights(c.Weights),
		References:   score.References(c.References),
		IntentScores: intents,
		Thresholds:   score.Thresholds(c.Thresholds),
		QuickWin:     score.QuickWin(c.QuickWin),
	}
}

// ClusterConfig converts the configuration into clusterer settings.
func (c Config) ClusterConfig() cluster.Config {
	return cluster.Config{
		SimilarityThreshold: c.Cluster.SimilarityThreshold,
		Primary:             cluster.Range{Min: c.Cluster.PrimaryMin, Max: c.Cluster.PrimaryMax},
		Secondary:           cluster.Range{Min: c.Cluster.SecondaryMin, Max: c.Cluster.SecondaryMax},
		MinOpportunity:      c.Cluster.MinOpportunity,
	}
}
