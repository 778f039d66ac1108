package sources

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// nonArticleImageMarkers flag thumbnails, icons and other chrome images that
// must not be promoted to the article photo.
var nonArticleImageMarkers = []string{"thumb", "icon", "logo", "avatar"}

// extractReadable runs a readability pass over the page and returns the raw
// article fields. The title falls back to the page heading or <title> text;
// an empty title after all fallbacks means the page is not extractable.
func extractReadable(html []byte, pageURL string) *Extracted {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	out := &Extracted{}

	article, err := readability.FromReader(bytes.NewReader(html), parsedURL)
	if err == nil {
		out.Title = strings.TrimSpace(article.Title)
		out.Description = strings.TrimSpace(article.Excerpt)
		out.Content = strings.TrimSpace(article.TextContent)
		out.Image = strings.TrimSpace(article.Image)
		if article.PublishedTime != nil {
			out.Date = article.PublishedTime.Format(time.RFC3339)
		}
	}

	if out.Title == "" {
		out.Title = fallbackTitle(html)
	}
	if out.Title == "" {
		return nil
	}
	return out
}

// fallbackTitle recovers a title from the first <h1> or the <title> tag.
func fallbackTitle(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// discoverImage finds an article photo when readability recovered none:
// prefer the Open Graph image meta tag, otherwise take the first embedded
// image whose URL carries no thumbnail/icon/logo/avatar marker. Relative
// image URLs are resolved against the article URL.
func discoverImage(html []byte, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}

	if node := doc.Find(`meta[property="og:image"]`).First(); node.Length() > 0 {
		if val, ok := node.Attr("content"); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return true
		}
		lower := strings.ToLower(src)
		for _, marker := range nonArticleImageMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil {
			return true
		}
		found = base.ResolveReference(ref).String()
		return false
	})
	return found
}
