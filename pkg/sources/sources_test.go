package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadSourcesYAML(t *testing.T) {
	path := writeTemp(t, "sources.yaml", `
sources:
  - name: Stan.kz
    url: https://stan.kz/
    lang: KZ
  - name: Orda.kz
    url: https://orda.kz/
    lang: ru
`)

	srcs, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(srcs) != 2 {
		t.Fatalf("expected two sources, got %d", len(srcs))
	}
	if srcs[0].Lang != "kz" {
		t.Fatalf("expected lang normalized to lowercase, got %q", srcs[0].Lang)
	}

	src, ok := SourceByName(srcs, "orda.kz")
	if !ok || src.Name != "Orda.kz" {
		t.Fatalf("expected case-insensitive lookup, got %+v ok=%v", src, ok)
	}
}

func TestLoadSourcesRejectsDuplicates(t *testing.T) {
	path := writeTemp(t, "sources.yaml", `
sources:
  - name: Stan.kz
    url: https://stan.kz/
  - name: stan.KZ
    url: https://stan.kz/
`)

	if _, err := LoadSources(path); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestLoadSourcesRejectsMissingURL(t *testing.T) {
	path := writeTemp(t, "sources.yaml", `
sources:
  - name: Stan.kz
`)

	if _, err := LoadSources(path); err == nil {
		t.Fatalf("expected missing url error")
	}
}

func TestLoadSourcesJSON(t *testing.T) {
	path := writeTemp(t, "sources.json", `{"sources":[{"name":"Baq.kz","url":"https://baq.kz/","lang":"kz"}]}`)

	srcs, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources json: %v", err)
	}
	if len(srcs) != 1 || srcs[0].Name != "Baq.kz" {
		t.Fatalf("unexpected sources %+v", srcs)
	}
}

func TestLoadSourcesEmptyFileFails(t *testing.T) {
	path := writeTemp(t, "sources.yaml", `sources: []`)
	if _, err := LoadSources(path); err == nil {
		t.Fatalf("expected error for empty source list")
	}
}
