package classify

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category pairs a category name with the keywords that vote for it. The
// declaration order in the config file breaks scoring ties (first wins).
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Config holds the keyword tables and the category map injected into the
// classifier. Keyword lists are per-language; matching runs over both.
type Config struct {
	KeywordsKZ []string   `yaml:"keywords_kz" json:"keywords_kz"`
	KeywordsRU []string   `yaml:"keywords_ru" json:"keywords_ru"`
	Categories []Category `yaml:"categories" json:"categories"`
}

// LoadConfig loads the classifier configuration from a YAML file.
func LoadConfig(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Config{}, errors.New("keywords file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read keywords file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode keywords file: %w", err)
	}

	cfg.KeywordsKZ = trimAll(cfg.KeywordsKZ)
	cfg.KeywordsRU = trimAll(cfg.KeywordsRU)

	seen := make(map[string]struct{}, len(cfg.Categories))
	for i, cat := range cfg.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return Config{}, fmt.Errorf("category[%d]: name is required", i)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return Config{}, fmt.Errorf("duplicate category %q", name)
		}
		seen[key] = struct{}{}
		cfg.Categories[i].Name = name
		cfg.Categories[i].Keywords = trimAll(cat.Keywords)
	}

	return cfg, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
