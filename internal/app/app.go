// Package app wires configuration into the aggregation runtime and exposes
// the operations the CLI dispatches to.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/aggregator"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/classify"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/config"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/export"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/logger"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/store"
	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/httpclient"
	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/sources"
	"github.com/aqparat-hq/aqparat-news-aggregator/pkg/submit"
)

// App is the aggregation runtime: sources, classifier, persistence and the
// single-pass service, built once from config.
type App struct {
	cfg       *config.Config
	srcs      []sources.Source
	ledger    *store.Ledger
	articles  *store.ArticleStore
	submitter *submit.Client
	service   *aggregator.Service
}

// New builds the runtime from config files.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	srcs, err := sources.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	logger.InfoObj("sources loaded", "sources_meta", map[string]any{
		"count": len(srcs),
		"file":  cfg.SourcesFile,
	})

	clsCfg, err := classify.LoadConfig(cfg.KeywordsFile)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}
	logger.InfoObj("keyword tables loaded", "keywords_meta", map[string]any{
		"keywords_kz": len(clsCfg.KeywordsKZ),
		"keywords_ru": len(clsCfg.KeywordsRU),
		"categories":  len(clsCfg.Categories),
	})

	ledger, err := store.OpenLedger(cfg.LedgerPath())
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	articles, err := store.OpenArticleStore(cfg.NewsPath())
	if err != nil {
		ledger.Close()
		return nil, fmt.Errorf("open article store: %w", err)
	}

	var submitter *submit.Client
	var serviceSubmitter aggregator.Submitter
	if cfg.SubmitEnabled {
		submitter = submit.New(cfg.APIBaseURL, cfg.APISubmitEndpoint, cfg.APITimeout)
		serviceSubmitter = submitter
	}

	registry := sources.DefaultRegistry(httpclient.NewRestyClient(cfg.FetchTimeout))
	service := aggregator.NewService(registry, classify.New(clsCfg), ledger, articles, serviceSubmitter, aggregator.Options{
		MaxArticlesPerSource: cfg.MaxArticlesPerSource,
		ArticleDelay:         cfg.ArticleDelay,
		SourceDelay:          cfg.SourceDelay,
		RequireKeywords:      cfg.RequireKeywords,
	})

	return &App{
		cfg:       cfg,
		srcs:      srcs,
		ledger:    ledger,
		articles:  articles,
		submitter: submitter,
		service:   service,
	}, nil
}

// Close releases the persistence backends.
func (a *App) Close() {
	if a == nil || a.ledger == nil {
		return
	}
	if err := a.ledger.Close(); err != nil {
		logger.ErrorObj("ledger close failed", "error", err.Error())
	}
}

// RunOnce executes a single aggregation pass over all configured sources.
func (a *App) RunOnce(ctx context.Context) (aggregator.Summary, error) {
	return a.service.Run(ctx, a.srcs)
}

// RunSource executes a single pass over one source selected by name.
func (a *App) RunSource(ctx context.Context, name string) (aggregator.Summary, error) {
	src, ok := sources.SourceByName(a.srcs, name)
	if !ok {
		return aggregator.Summary{}, fmt.Errorf("source %q not found", name)
	}
	return a.service.Run(ctx, []sources.Source{src})
}

// RunScheduled runs a pass immediately, then on a fixed interval until the
// context is cancelled. Passes never overlap: the cron wrapper skips a tick
// if the previous pass is still running.
func (a *App) RunScheduled(ctx context.Context) error {
	if _, err := a.RunOnce(ctx); err != nil {
		logger.ErrorObj("initial pass failed", "error", err.Error())
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	spec := fmt.Sprintf("@every %dm", a.cfg.FetchIntervalMinutes)
	_, err := c.AddFunc(spec, func() {
		if _, err := a.RunOnce(ctx); err != nil {
			logger.ErrorObj("scheduled pass failed", "error", err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("schedule pass: %w", err)
	}

	logger.InfoObj("scheduler started", "schedule_meta", map[string]any{
		"interval_minutes": a.cfg.FetchIntervalMinutes,
	})
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	logger.InfoObj("scheduler stopped", "reason", ctx.Err())
	return nil
}

// Pending lists the articles awaiting moderation.
func (a *App) Pending() []*domain.NewsArticle {
	return a.articles.GetByStatus(domain.StatusPending)
}

// Approve marks a pending article approved.
func (a *App) Approve(id int) error {
	return a.articles.UpdateStatus(id, domain.StatusApproved)
}

// Reject marks a pending article rejected.
func (a *App) Reject(id int) error {
	return a.articles.UpdateStatus(id, domain.StatusRejected)
}

// Stats tallies the store by moderation status.
func (a *App) Stats() store.Counts {
	return a.articles.Count()
}

// Export delivers approved articles in CRM format to the configured sinks
// and returns the number of exported records plus the export file path.
func (a *App) Export(ctx context.Context) (int, string, error) {
	sinks := []export.Sink{export.NewFileSink(a.cfg.ExportPath())}
	if a.cfg.ExportSQSQueueURL != "" {
		queueSink, err := export.NewSQSSink(ctx, a.cfg.ExportSQSQueueURL, a.cfg.ExportSQSRegion)
		if err != nil {
			return 0, "", fmt.Errorf("build sqs sink: %w", err)
		}
		sinks = append(sinks, queueSink)
	}

	n, err := export.Run(ctx, a.articles.GetByStatus(domain.StatusApproved), sinks)
	if err != nil {
		return 0, "", err
	}
	return n, a.cfg.ExportPath(), nil
}

// Ping probes the downstream submission endpoint.
func (a *App) Ping(ctx context.Context) error {
	client := a.submitter
	if client == nil {
		client = submit.New(a.cfg.APIBaseURL, a.cfg.APISubmitEndpoint, a.cfg.APITimeout)
	}
	return client.Ping(ctx)
}
