package sources

import (
	"context"

	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/httpclient"
)

// Extracted holds the raw fields recovered from one article page, before
// classification. Date is whatever the page declared; it is normalized later.
type Extracted struct {
	Title       string
	Description string
	Content     string
	Date        string
	Image       string
}

// Extractor is the per-site capability pair: discover candidate article URLs
// from the site's seed pages, and parse one article URL into raw fields.
// Concrete site extractors are built in sites.go.
type Extractor interface {
	Name() string
	DiscoverLinks(ctx context.Context) ([]string, error)
	ParseArticle(ctx context.Context, url string) (*Extracted, error)
}

// Registry resolves the extractor for a configured source. Sources without a
// dedicated extractor get the generic one seeded with the source URL.
type Registry interface {
	ExtractorFor(src Source) Extractor
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client
