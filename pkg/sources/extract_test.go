package sources

import (
	"strings"
	"testing"
)

func TestExtractReadableFallsBackToHeading(t *testing.T) {
	// No <title> element, so the heading is the only recoverable title.
	html := []byte(`<html><body><h1>Actual Heading</h1><p>short note</p></body></html>`)

	out := extractReadable(html, "https://example.kz/news/1")
	if out == nil {
		t.Fatalf("expected extraction with title fallback, got nil")
	}
	if out.Title != "Actual Heading" {
		t.Fatalf("expected heading fallback, got %q", out.Title)
	}
}

func TestExtractReadableKeepsRecoveredTitle(t *testing.T) {
	html := []byte(`<html><head><title>Page Title - Site</title></head>
		<body><h1>Actual Heading</h1><p>short note</p></body></html>`)

	out := extractReadable(html, "https://example.kz/news/1")
	if out == nil {
		t.Fatalf("expected extraction, got nil")
	}
	// A title recovered by the readability pass wins over the heading fallback.
	if out.Title != "Page Title - Site" {
		t.Fatalf("expected recovered page title, got %q", out.Title)
	}
}

func TestExtractReadableNoTitleMeansUnparseable(t *testing.T) {
	html := []byte(`<html><body><p>nothing here</p></body></html>`)

	if out := extractReadable(html, "https://example.kz/news/1"); out != nil {
		t.Fatalf("expected nil for page without any title, got %+v", out)
	}
}

func TestExtractReadableRecoversArticleText(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><head><title>Budget Article</title></head><body><article><h1>Budget Article</h1>`)
	for range 12 {
		b.WriteString(`<p>The regional budget commission approved additional spending on schools and hospitals across the area, officials said on Tuesday during the plenary session.</p>`)
	}
	b.WriteString(`</article></body></html>`)

	out := extractReadable([]byte(b.String()), "https://example.kz/news/budget-article-2024")
	if out == nil {
		t.Fatalf("expected successful extraction")
	}
	if out.Title == "" {
		t.Fatalf("expected a title")
	}
	if !strings.Contains(out.Content, "budget commission") {
		t.Fatalf("expected main text recovered, got %q", out.Content[:min(len(out.Content), 120)])
	}
}

func TestDiscoverImagePrefersOpenGraph(t *testing.T) {
	html := []byte(`<html><head>
		<meta property="og:image" content="https://cdn.example.kz/photo.jpg"/>
	</head><body><img src="/images/thumb_1.jpg"/></body></html>`)

	got := discoverImage(html, "https://example.kz/news/1")
	if got != "https://cdn.example.kz/photo.jpg" {
		t.Fatalf("expected og:image, got %q", got)
	}
}

func TestDiscoverImageSkipsChromeImages(t *testing.T) {
	html := []byte(`<html><body>
		<img src="/static/logo.png"/>
		<img src="/static/icon-share.svg"/>
		<img src="/uploads/avatar_editor.jpg"/>
		<img src="/uploads/photo_main.jpg"/>
	</body></html>`)

	got := discoverImage(html, "https://example.kz/news/1")
	if got != "https://example.kz/uploads/photo_main.jpg" {
		t.Fatalf("expected first non-chrome image resolved against page url, got %q", got)
	}
}

func TestDiscoverImageNoCandidates(t *testing.T) {
	html := []byte(`<html><body><img src="/static/logo.png"/></body></html>`)

	if got := discoverImage(html, "https://example.kz/news/1"); got != "" {
		t.Fatalf("expected empty image, got %q", got)
	}
}
