// Package export writes approved articles, in CRM format, to the configured
// sinks: a JSON file and, when a queue is configured, AWS SQS.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
)

// Sink delivers a batch of approved articles to one export target.
type Sink interface {
	ID() string
	Deliver(ctx context.Context, records []domain.CRMRecord) error
}

// Run converts the articles to CRM records and delivers them to every sink.
// The first sink failure aborts the export.
func Run(ctx context.Context, articles []*domain.NewsArticle, sinks []Sink) (int, error) {
	records := make([]domain.CRMRecord, 0, len(articles))
	for _, a := range articles {
		records = append(records, a.ToCRMRecord())
	}

	for _, sink := range sinks {
		if err := sink.Deliver(ctx, records); err != nil {
			return 0, fmt.Errorf("export sink %s: %w", sink.ID(), err)
		}
	}
	return len(records), nil
}

// fileSink writes the full record list as one JSON document.
type fileSink struct {
	path string
}

// NewFileSink builds the JSON file export sink.
func NewFileSink(path string) Sink {
	return &fileSink{path: path}
}

func (f *fileSink) ID() string { return "file:" + f.path }

func (f *fileSink) Deliver(_ context.Context, records []domain.CRMRecord) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	dir := filepath.Dir(f.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
