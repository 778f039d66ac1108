package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
)

func approvedArticle(id int, title string) *domain.NewsArticle {
	a := &domain.NewsArticle{
		ID:          id,
		Title:       title,
		Description: "Сипаттама",
		ContentText: "Толық мәтін",
		Category:    "education",
		Date:        "2025-02-28T10:30:00Z",
		Language:    domain.LangKazakh,
		Status:      domain.StatusApproved,
	}
	a.SetLanguageFields()
	return a
}

func TestFileSinkWritesCRMDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "crm.json")
	sink := NewFileSink(path)

	articles := []*domain.NewsArticle{
		approvedArticle(1, "Бірінші мақала"),
		approvedArticle(2, "Екінші мақала"),
	}
	n, err := Run(context.Background(), articles, []Sink{sink})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 exported records, got %d", n)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	var records []domain.CRMRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode export file: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records in file, got %d", len(records))
	}
	if records[0].ID != 1 || records[0].Title != "Бірінші мақала" {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[0].TitleKZ != "Бірінші мақала" || records[0].TitleRU != "" {
		t.Fatalf("expected kazakh field pair only: %+v", records[0])
	}
}

func TestRunEmptyBatchWritesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.json")

	n, err := Run(context.Background(), nil, []Sink{NewFileSink(path)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no records, got %d", n)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	var records []domain.CRMRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode export file: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty record list, got %d", len(records))
	}
}

type failingSink struct{}

func (failingSink) ID() string { return "failing" }
func (failingSink) Deliver(context.Context, []domain.CRMRecord) error {
	return errors.New("target unreachable")
}

func TestRunFirstSinkFailureAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.json")

	_, err := Run(context.Background(), []*domain.NewsArticle{approvedArticle(1, "Мақала")},
		[]Sink{failingSink{}, NewFileSink(path)})
	if err == nil {
		t.Fatalf("expected sink failure to abort the export")
	}
	if _, serr := os.Stat(path); !os.IsNotExist(serr) {
		t.Fatalf("later sinks must not run after a failure")
	}
}
