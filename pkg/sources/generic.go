package sources

import (
	"context"
)

// genericExtractor is the best-effort fallback for sources without a
// dedicated extractor: link discovery relies on the generic article-shape
// test only, and image discovery scans the page when readability finds none.
type genericExtractor struct {
	name    string
	seedURL string
	client  HTTPClient
}

// NewGeneric builds the fallback extractor for an unconfigured site.
func NewGeneric(name, seedURL string, client HTTPClient) Extractor {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &genericExtractor{name: name, seedURL: seedURL, client: client}
}

func (g *genericExtractor) Name() string { return g.name }

func (g *genericExtractor) DiscoverLinks(ctx context.Context) ([]string, error) {
	html, err := fetchPage(ctx, g.client, g.seedURL)
	if err != nil {
		return nil, err
	}
	return findArticleLinks(html, g.seedURL, nil)
}

func (g *genericExtractor) ParseArticle(ctx context.Context, url string) (*Extracted, error) {
	html, err := fetchPage(ctx, g.client, url)
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
