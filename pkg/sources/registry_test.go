package sources

import (
	"context"
	"testing"

	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/httpclient"
)

// stubClient serves canned pages keyed by URL; unknown URLs get a 404.
type stubClient struct {
	pages map[string][]byte
}

type stubResponse struct {
	body   []byte
	status int
}

func (r stubResponse) Body() []byte    { return r.body }
func (r stubResponse) StatusCode() int { return r.status }

func (c *stubClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	if body, ok := c.pages[url]; ok {
		return stubResponse{body: body, status: 200}, nil
	}
	return stubResponse{status: 404}, nil
}

func TestRegistryResolvesKnownSites(t *testing.T) {
	reg := DefaultRegistry(nil)

	cases := []string{"Stan.kz", "Baq.kz", "InformBuro", "Orda.kz", "Sputnik KZ", "24.kz", "Zakon.kz"}
	for _, name := range cases {
		e := reg.ExtractorFor(Source{Name: name, URL: "https://example.kz/"})
		if e.Name() != name {
			t.Fatalf("expected dedicated extractor for %q, got %q", name, e.Name())
		}
		if _, ok := e.(*genericExtractor); ok {
			t.Fatalf("expected site extractor for %q, got generic", name)
		}
	}

	// Name matching is case-insensitive.
	if e := reg.ExtractorFor(Source{Name: "stan.KZ"}); e.Name() != "Stan.kz" {
		t.Fatalf("expected case-insensitive lookup, got %q", e.Name())
	}
}

func TestRegistryFallsBackToGeneric(t *testing.T) {
	reg := DefaultRegistry(nil)

	e := reg.ExtractorFor(Source{Name: "Tengri News", URL: "https://tengrinews.kz/"})
	if _, ok := e.(*genericExtractor); !ok {
		t.Fatalf("expected generic fallback, got %T", e)
	}
	if e.Name() != "Tengri News" {
		t.Fatalf("generic extractor must keep the source name, got %q", e.Name())
	}
}
