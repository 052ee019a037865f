package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/contentpeak/opplens/pkg/opplens/affiliate"
	"github.com/contentpeak/opplens/pkg/opplens/classify"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
)

// Load reads an engine configuration from a YAML file. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// networkFile is the YAML shape of an affiliate catalog file.
type networkFile struct {
	Networks []networkEntry `yaml:"networks"`
}

type networkEntry struct {
	Name       string   `yaml:"name"`
	Category   string   `yaml:"category"`
	Commission string   `yaml:"commission"`
	Rating     float64  `yaml:"rating"`
	Formats    []string `yaml:"formats"`
	Keywords   []string `yaml:"keywords"`
	Intents    []string `yaml:"intents"`
}

// LoadCatalog reads an affiliate network catalog from a YAML file and
// validates it.
func LoadCatalog(path string) (affiliate.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return affiliate.Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var file networkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return affiliate.Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	networks := make([]affiliate.Network, len(file.Networks))
	for i, e := range file.Networks {
		formats := make([]classify.Format, len(e.Formats))
		for j, f := range e.Formats {
			formats[j] = classify.Format(strings.ToLower(f))
		}
		intents := make([]keyword.Intent, len(e.Intents))
		for j, it := range e.Intents {
			intents[j] = keyword.Intent(strings.ToLower(it))
		}

		networks[i] = affiliate.Network{
			Name:             e.Name,
			Category:         e.Category,
			Commission:       affiliate.Commission(strings.ToLower(e.Commission)),
			Rating:           e.Rating,
			FormatAffinities: formats,
			AffinityKeywords: e.Keywords,
			IntentAffinities: intents,
		}
	}

	cat, err := affiliate.NewCatalog(networks)
	if err != nil {
		return affiliate.Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}
