// Package aggregator runs one aggregation pass: discover article links per
// source, drop already-seen URLs, parse and classify the rest, optionally
// submit downstream, and persist everything locally.
package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/classify"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/logger"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/store"
	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/sources"
	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/submit"
)

// SeenLedger is the deduplication surface the orchestrator needs.
type SeenLedger interface {
	IsSeen(url string) (bool, error)
	MarkSeen(url string) error
}

// ArticleStore is the persistence surface the orchestrator needs.
type ArticleStore interface {
	AddMany(articles []*domain.NewsArticle) error
	Count() store.Counts
}

// Submitter delivers one article downstream. A nil Submitter disables
// submission entirely; articles are then persisted locally only.
type Submitter interface {
	Submit(ctx context.Context, article *domain.NewsArticle) submit.Result
}

// Options tune one aggregation pass.
type Options struct {
	MaxArticlesPerSource int
	ArticleDelay         time.Duration
	SourceDelay          time.Duration
	// RequireKeywords drops articles with no keyword match. Their URLs are
	// still marked seen so they are not re-fetched on later runs.
	RequireKeywords bool
}

// Summary is the end-of-run report.
type Summary struct {
	NewArticles int `json:"new_articles"`
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
}

// Service coordinates a single pass across the configured sources. Sources
// and articles are processed strictly sequentially with politeness delays;
// no site ever sees parallel fetches from this process.
type Service struct {
	registry   sources.Registry
	classifier *classify.Classifier
	ledger     SeenLedger
	store      ArticleStore
	submitter  Submitter
	opts       Options
	now        func() time.Time
}

// NewService wires the pipeline stages together.
func NewService(reg sources.Registry, cls *classify.Classifier, ledger SeenLedger, st ArticleStore, sub Submitter, opts Options) *Service {
	if opts.MaxArticlesPerSource <= 0 {
		opts.MaxArticlesPerSource = 10
	}
	return &Service{
		registry:   reg,
		classifier: cls,
		ledger:     ledger,
		store:      st,
		submitter:  sub,
		opts:       opts,
		now:        time.Now,
	}
}

// Run executes one pass over the given sources and reports aggregate counts.
// Failures of individual URLs or whole sources are logged and skipped; only
// persistence failures abort the run, since losing durability breaks the
// dedup guarantees.
func (s *Service) Run(ctx context.Context, srcs []sources.Source) (Summary, error) {
	if s == nil || s.registry == nil {
		return Summary{}, fmt.Errorf("aggregator service is not initialized")
	}
	if len(srcs) == 0 {
		return Summary{}, fmt.Errorf("no sources configured")
	}

	start := s.now()
	logger.InfoObj("aggregation pass started", "run_meta", map[string]any{
		"sources_count": len(srcs),
		"started_at":    start.UTC(),
	})

	newArticles := 0
	for i, src := range srcs {
		count, err := s.runSource(ctx, src)
		newArticles += count
		if err != nil {
			return Summary{}, fmt.Errorf("source %s: %w", src.Name, err)
		}

		if s.opts.SourceDelay > 0 && i < len(srcs)-1 {
			if !sleepCtx(ctx, s.opts.SourceDelay) {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	counts := s.store.Count()
	summary := Summary{
		NewArticles: newArticles,
		Total:       counts.Total,
		Pending:     counts.Pending,
		Approved:    counts.Approved,
		Rejected:    counts.Rejected,
	}
	logger.InfoObj("aggregation pass completed", "run_summary", map[string]any{
		"new_articles": summary.NewArticles,
		"total":        summary.Total,
		"pending":      summary.Pending,
		"approved":     summary.Approved,
		"rejected":     summary.Rejected,
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return summary, nil
}

// runSource processes one source. The returned error is reserved for
// persistence failures; discovery and parse failures are logged and isolated
// to this source.
func (s *Service) runSource(ctx context.Context, src sources.Source) (int, error) {
	extractor := s.registry.ExtractorFor(src)

	links, err := extractor.DiscoverLinks(ctx)
	if err != nil {
		logger.ErrorObj("source discovery failed", "source_error", map[string]any{
			"source": src.Name,
			"error":  err.Error(),
		})
		return 0, nil
	}

	fresh, err := s.filterSeen(links)
	if err != nil {
		return 0, err
	}
	if len(fresh) > s.opts.MaxArticlesPerSource {
		fresh = fresh[:s.opts.MaxArticlesPerSource]
	}

	logger.InfoObj("source discovery completed", "source_meta", map[string]any{
		"source":     src.Name,
		"discovered": len(links),
		"new":        len(fresh),
	})

	var batch []*domain.NewsArticle
	for _, url := range fresh {
		if ctx.Err() != nil {
			break
		}

		article, perr := s.processURL(ctx, extractor, src, url)
		if article != nil {
			batch = append(batch, article)
		}
		if perr != nil {
			// Persist what we have; the ledger failure is fatal regardless.
			if serr := s.store.AddMany(batch); serr != nil {
				logger.ErrorObj("batch persist failed during abort", "store_error", serr.Error())
			}
			return len(batch), perr
		}

		if s.opts.ArticleDelay > 0 && !sleepCtx(ctx, s.opts.ArticleDelay) {
			break
		}
	}

	if err := s.store.AddMany(batch); err != nil {
		return 0, fmt.Errorf("persist articles: %w", err)
	}
	return len(batch), nil
}

// processURL runs parse → classify → mark seen → submit for one URL. A nil
// article with nil error means the URL was skipped (unparseable or filtered).
func (s *Service) processURL(ctx context.Context, extractor sources.Extractor, src sources.Source, url string) (*domain.NewsArticle, error) {
	data, err := extractor.ParseArticle(ctx, url)
	if err != nil {
		logger.WarnObj("article fetch failed", "article_error", map[string]any{
			"source": src.Name,
			"url":    url,
			"error":  err.Error(),
		})
		return nil, nil
	}
	if data == nil || data.Title == "" {
		logger.WarnObj("article not extractable", "article_error", map[string]any{
			"source": src.Name,
			"url":    url,
		})
		return nil, nil
	}

	fullText := data.Title + " " + data.Description + " " + data.Content

	matched := s.classifier.MatchKeywords(fullText)
	if len(matched) == 0 && s.opts.RequireKeywords {
		logger.DebugObj("article dropped, no keyword match", "article_filtered", map[string]any{
			"source": src.Name,
			"url":    url,
			"title":  data.Title,
		})
		if err := s.ledger.MarkSeen(url); err != nil {
			return nil, fmt.Errorf("mark url seen: %w", err)
		}
		return nil, nil
	}

	lang := s.classifier.DetectLanguage(fullText)
	if lang == domain.LangUnknown && src.Lang != "" {
		lang = src.Lang
	}

	description := data.Description
	if description == "" {
		description = s.classifier.CreateDescription(data.Content, classify.DefaultDescriptionLength)
	}

	article := &domain.NewsArticle{
		Title:           data.Title,
		Description:     description,
		ContentText:     data.Content,
		PhotoURL:        data.Image,
		Category:        s.classifier.DetermineCategory(fullText, matched),
		Date:            s.classifier.NormalizeDate(data.Date),
		SourceURL:       url,
		SourceName:      src.Name,
		Language:        lang,
		MatchedKeywords: matched,
		Status:          domain.StatusPending,
		FetchedAt:       s.now().Format(time.RFC3339),
	}
	article.SetLanguageFields()

	// The URL is marked before submission and store append: once processed it
	// must never be re-offered, even if the rest of this iteration fails.
	if err := s.ledger.MarkSeen(url); err != nil {
		return nil, fmt.Errorf("mark url seen: %w", err)
	}

	if s.submitter != nil {
		result := s.submitter.Submit(ctx, article)
		logger.InfoObj("article processed", "article_result", map[string]any{
			"source":     src.Name,
			"title":      truncate(article.Title, 60),
			"category":   article.Category,
			"language":   article.Language,
			"keywords":   len(matched),
			"submission": result.String(),
		})
	} else {
		logger.InfoObj("article processed", "article_result", map[string]any{
			"source":     src.Name,
			"title":      truncate(article.Title, 60),
			"category":   article.Category,
			"language":   article.Language,
			"keywords":   len(matched),
			"submission": "disabled",
		})
	}

	return article, nil
}

func (s *Service) filterSeen(links []string) ([]string, error) {
	fresh := make([]string, 0, len(links))
	for _, url := range links {
		seen, err := s.ledger.IsSeen(url)
		if err != nil {
			return nil, fmt.Errorf("ledger lookup: %w", err)
		}
		if !seen {
			fresh = append(fresh, url)
		}
	}
	return fresh, nil
}

// sleepCtx waits for the delay unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
