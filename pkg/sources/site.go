package sources

import (
	"context"
	"fmt"
	"regexp"
)

// siteExtractor implements Extractor for sites with known seed pages and
// article path patterns. One instance per configured site; see sites.go.
type siteExtractor struct {
	name     string
	baseURL  string
	seeds    []string
	patterns []*regexp.Regexp
	client   HTTPClient
}

func newSiteExtractor(name, baseURL string, seeds []string, patterns []string, client HTTPClient) *siteExtractor {
	if client == nil {
		client = DefaultHTTPClient()
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return &siteExtractor{
		name:     name,
		baseURL:  baseURL,
		seeds:    seeds,
		patterns: compiled,
		client:   client,
	}
}

func (s *siteExtractor) Name() string { return s.name }

// DiscoverLinks fetches each seed page and collects article-shaped links.
// A failing seed fails discovery only if no other seed produced links.
func (s *siteExtractor) DiscoverLinks(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var links []string
	var lastErr error

	for _, seed := range s.seeds {
		html, err := fetchPage(ctx, s.client, seed)
		if err != nil {
			lastErr = fmt.Errorf("fetch seed %s: %w", seed, err)
			continue
		}
		found, err := findArticleLinks(html, s.baseURL, s.patterns)
		if err != nil {
			lastErr = fmt.Errorf("scan seed %s: %w", seed, err)
			continue
		}
		for _, u := range found {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			links = append(links, u)
		}
	}

	if len(links) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return links, nil
}

// ParseArticle fetches the article page and runs the readability pass.
// A nil result with nil error means the page is not extractable.
func (s *siteExtractor) ParseArticle(ctx context.Context, url string) (*Extracted, error) {
	html, err := fetchPage(ctx, s.client, url)
	if err != nil {
		return nil, err
	}

	out := extractReadable(html, url)
	if out == nil {
		return nil, nil
	}
	if out.Image == "" {
		out.Image = discoverImage(html, url)
	}
	return out, nil
}
