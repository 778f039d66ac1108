package sources

import (
	"strings"
	"sync"
	"time"

	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/httpclient"
)

// extractorRegistry implements Registry with a map keyed by source name.
type extractorRegistry struct {
	byName map[string]Extractor
	client HTTPClient
	mu     sync.RWMutex
}

// NewRegistry builds a registry for the given extractors keyed by their name.
// The client is used to construct generic fallbacks for unmatched sources.
func NewRegistry(client HTTPClient, extractors ...Extractor) Registry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	reg := &extractorRegistry{
		byName: make(map[string]Extractor),
		client: client,
	}
	for _, e := range extractors {
		reg.register(e)
	}
	return reg
}

func (r *extractorRegistry) register(e Extractor) {
	if e == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(e.Name()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.byName[key] = e
	r.mu.Unlock()
}

// ExtractorFor resolves the extractor for a source by name, falling back to
// the generic extractor seeded with the source URL.
func (r *extractorRegistry) ExtractorFor(src Source) Extractor {
	r.mu.RLock()
	e, ok := r.byName[strings.ToLower(strings.TrimSpace(src.Name))]
	r.mu.RUnlock()

	if ok {
		return e
	}
	return NewGeneric(src.Name, src.URL, r.client)
}

// DefaultHTTPClient returns a tuned http client for extractors.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultRegistry wires up the extractors for all known sites.
func DefaultRegistry(client HTTPClient) Registry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return NewRegistry(client,
		NewStanKZ(client),
		NewBaqKZ(client),
		NewInformBuro(client),
		NewOrdaKZ(client),
		NewSputnikKZ(client),
		NewTwentyFourKZ(client),
		NewZakonKZ(client),
	)
}
