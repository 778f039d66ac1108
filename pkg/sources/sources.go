package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package sources contains the configured source list and the per-site
// extractors that discover and parse articles for each source.

// Source describes one configured news site. Name selects the extractor,
// URL is the seed page, Lang is a fallback language hint.
type Source struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Lang string `json:"lang" yaml:"lang"`
}

type sourcesFile struct {
	Sources []Source `json:"sources" yaml:"sources"`
}

// LoadSources loads the source list from a YAML or JSON file.
func LoadSources(path string) ([]Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	parsed, err := parseSources(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Sources) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	seen := make(map[string]struct{}, len(parsed.Sources))
	for i := range parsed.Sources {
		s := sanitizeSource(parsed.Sources[i])
		if err := validateSource(s); err != nil {
			return nil, fmt.Errorf("source[%d]: %w", i, err)
		}
		key := strings.ToLower(s.Name)
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[key] = struct{}{}
		parsed.Sources[i] = s
	}

	return parsed.Sources, nil
}

// SourceByName returns the source with the given name (case-insensitive).
func SourceByName(srcs []Source, name string) (Source, bool) {
	name = strings.TrimSpace(name)
	for _, s := range srcs {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Source{}, false
}

func parseSources(data []byte, ext string) (sourcesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed sourcesFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return sourcesFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

func sanitizeSource(s Source) Source {
	s.Name = strings.TrimSpace(s.Name)
	s.URL = strings.TrimSpace(s.URL)
	s.Lang = strings.TrimSpace(strings.ToLower(s.Lang))
	return s
}

func validateSource(s Source) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required for source %q", s.Name)
	}
	if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
		return fmt.Errorf("url for source %q must be http(s)", s.Name)
	}
	return nil
}
