package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxHTMLBodyBytes = 2 << 20 // 2 MiB

// skipFragments mark listing pages, auth/search surfaces, asset files and
// media-sharing domains that are never article pages.
var skipFragments = []string{
	"/tag/", "/category/", "/author/", "/page/",
	"/login", "/register", "/search", "/rss",
	".jpg", ".png", ".pdf", ".mp3", ".mp4",
	"facebook.com", "twitter.com", "instagram.com", "youtube.com",
	"telegram.me", "t.me", "wa.me",
}

var (
	yearSegmentRe = regexp.MustCompile(`/\d{4}/`)
	numericIDRe   = regexp.MustCompile(`/\d+`)
	slugRe        = regexp.MustCompile(`-[a-z]+-`)
)

// fetchPage retrieves the page at the given URL and returns its body, capped
// to keep goquery parsing bounded on pathological pages.
func fetchPage(ctx context.Context, client HTTPClient, pageURL string) ([]byte, error) {
	resp, err := client.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode(), pageURL)
	}
	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return body, nil
}

// findArticleLinks enumerates anchors on a fetched page, resolves them
// against the page base URL and keeps only URLs that look like articles.
// When patterns are supplied a URL must match one of them; otherwise the
// generic shape test applies. The result is deduplicated, in discovery order.
func findArticleLinks(html []byte, baseURL string, patterns []*regexp.Regexp) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		resolved.Fragment = ""
		full := resolved.String()

		if !acceptArticleURL(resolved, full, patterns) {
			return
		}
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		links = append(links, full)
	})

	return links, nil
}

func acceptArticleURL(parsed *url.URL, full string, patterns []*regexp.Regexp) bool {
	lower := strings.ToLower(full)
	for _, frag := range skipFragments {
		if strings.Contains(lower, frag) {
			return false
		}
	}

	if len(patterns) > 0 {
		for _, p := range patterns {
			if p.MatchString(full) {
				return true
			}
		}
		return false
	}

	return hasArticleShape(parsed.Path)
}

// hasArticleShape is the generic fallback test: a path long enough to carry a
// slug, containing a year segment, a numeric id, a hyphenated slug, or at
// least two path segments.
func hasArticleShape(path string) bool {
	if len(path) <= 10 {
		return false
	}
	return yearSegmentRe.MatchString(path) ||
		numericIDRe.MatchString(path) ||
		slugRe.MatchString(path) ||
		strings.Count(path, "/") >= 2
}
