// Package classify derives language, matched keywords, category and a short
// description from raw extracted article text.
package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
)

// DefaultDescriptionLength is the target length for synthesized descriptions.
const DefaultDescriptionLength = 200

// Kazakh-exclusive letters vs. letters that indicate Russian text. Kazakh
// Cyrillic shares most of the Russian alphabet, so only the exclusive sets
// are counted.
var (
	kazakhLetters     = map[rune]struct{}{'ә': {}, 'і': {}, 'ң': {}, 'ғ': {}, 'ү': {}, 'ұ': {}, 'қ': {}, 'ө': {}, 'һ': {}}
	russianIndicators = []rune{'ы', 'э', 'ё', 'щ'}
	// Letters unambiguous enough to break an exact tie in favor of Kazakh.
	kazakhTiebreakers = []string{"қ", "ң", "ү"}
)

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// Classifier applies the configured keyword and category tables. It is
// stateless after construction and safe for repeated use within a run.
type Classifier struct {
	cfg      Config
	patterns []keywordPattern
	now      func() time.Time
}

// New compiles the keyword tables into matchers. Keyword order is preserved
// (Kazakh list first, then Russian) so matches report in a stable order.
func New(cfg Config) *Classifier {
	c := &Classifier{cfg: cfg, now: time.Now}
	for _, kw := range cfg.KeywordsKZ {
		c.patterns = append(c.patterns, compileKeyword(kw))
	}
	for _, kw := range cfg.KeywordsRU {
		c.patterns = append(c.patterns, compileKeyword(kw))
	}
	return c
}

// compileKeyword builds a case-insensitive whole-word matcher. Go's \b is
// ASCII-only, so the word boundary is spelled out as "not letter, digit or
// underscore" to hold for Cyrillic text as well.
func compileKeyword(kw string) keywordPattern {
	expr := `(?i)(?:\A|[^\p{L}\p{N}_])` + regexp.QuoteMeta(kw) + `(?:[^\p{L}\p{N}_]|\z)`
	return keywordPattern{keyword: kw, re: regexp.MustCompile(expr)}
}

// DetectLanguage decides between Kazakh and Russian by counting exclusive
// letters. Exact ties fall to Kazakh if an unambiguous Kazakh letter is
// present, otherwise to Russian. Empty input is unknown.
func (c *Classifier) DetectLanguage(text string) string {
	if text == "" {
		return domain.LangUnknown
	}

	lower := strings.ToLower(text)

	kzCount := 0
	for _, r := range lower {
		if _, ok := kazakhLetters[r]; ok {
			kzCount++
		}
	}
	ruCount := 0
	for _, r := range russianIndicators {
		ruCount += strings.Count(lower, string(r))
	}

	switch {
	case kzCount > ruCount:
		return domain.LangKazakh
	case ruCount > kzCount:
		return domain.LangRussian
	}

	for _, tb := range kazakhTiebreakers {
		if strings.Contains(lower, tb) {
			return domain.LangKazakh
		}
	}
	return domain.LangRussian
}

// MatchKeywords returns the configured keywords that occur as whole words in
// the text, deduplicated, in keyword-table order.
func (c *Classifier) MatchKeywords(text string) []string {
	if text == "" {
		return nil
	}

	var matched []string
	seen := make(map[string]struct{})
	for _, p := range c.patterns {
		if _, dup := seen[p.keyword]; dup {
			continue
		}
		if p.re.MatchString(text) {
			seen[p.keyword] = struct{}{}
			matched = append(matched, p.keyword)
		}
	}
	return matched
}

// DetermineCategory scores each configured category by how many of its
// keywords occur in the text plus the matched-keyword list, case-insensitive
// substring test. Highest score wins; ties go to the first declared category;
// zero everywhere yields "general".
func (c *Classifier) DetermineCategory(text string, matchedKeywords []string) string {
	if text == "" && len(matchedKeywords) == 0 {
		return "general"
	}

	combined := strings.ToLower(text) + " " + strings.ToLower(strings.Join(matchedKeywords, " "))

	best := ""
	bestScore := 0
	for _, cat := range c.cfg.Categories {
		score := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(combined, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			best = cat.Name
			bestScore = score
		}
	}

	if best == "" {
		return "general"
	}
	return best
}

// CreateDescription collapses whitespace and truncates the content to
// maxLength runes, preferring a sentence boundary past the midpoint, then a
// word boundary past the midpoint, then a hard cut with an ellipsis.
func (c *Classifier) CreateDescription(content string, maxLength int) string {
	if content == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultDescriptionLength
	}

	collapsed := strings.Join(strings.Fields(content), " ")
	runes := []rune(collapsed)
	if len(runes) <= maxLength {
		return collapsed
	}

	truncated := runes[:maxLength]
	mid := maxLength / 2

	cut := -1
	for i, r := range truncated {
		if r == '.' || r == '?' || r == '!' {
			cut = i
		}
	}
	if cut > mid {
		return string(truncated[:cut+1])
	}

	lastSpace := -1
	for i, r := range truncated {
		if r == ' ' {
			lastSpace = i
		}
	}
	if lastSpace > mid {
		return string(truncated[:lastSpace]) + "..."
	}

	return string(truncated) + "..."
}

// dateLayouts covers the timestamp shapes the extractors produce.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDate parses the extractor's raw date as ISO-8601 (trailing Z
// accepted as UTC) and re-emits it in RFC 3339. Absent or unparseable dates
// default to the current processing time.
func (c *Classifier) NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format(time.RFC3339)
			}
		}
	}
	return c.now().Format(time.RFC3339)
}
