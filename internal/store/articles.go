package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
)

// articlesFile is the persisted document: the full ordered collection plus
// the id counter. Every mutation rewrites the whole file.
type articlesFile struct {
	Articles    []*domain.NewsArticle `json:"articles"`
	NextID      int                   `json:"next_id"`
	LastUpdated string                `json:"last_updated"`
}

// Counts summarizes the collection by moderation status.
type Counts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ArticleStore is the persisted article collection with its moderation
// lifecycle. Single-writer: callers must not run overlapping mutations.
type ArticleStore struct {
	path     string
	articles []*domain.NewsArticle
	nextID   int
}

// OpenArticleStore loads the collection from disk. A missing file yields an
// empty store with the id counter at 1.
func OpenArticleStore(path string) (*ArticleStore, error) {
	s := &ArticleStore{path: path, nextID: 1}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read article store: %w", err)
	}

	var doc articlesFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode article store: %w", err)
	}
	s.articles = doc.Articles
	if doc.NextID > 0 {
		s.nextID = doc.NextID
	}
	return s, nil
}

// save rewrites the whole collection. Written to a temp file and renamed so
// a crash mid-write cannot leave a truncated store behind.
func (s *ArticleStore) save() error {
	doc := articlesFile{
		Articles:    s.articles,
		NextID:      s.nextID,
		LastUpdated: time.Now().Format(time.RFC3339),
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode article store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write article store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace article store: %w", err)
	}
	return nil
}

// AddMany appends articles, assigning each a fresh monotonically increasing
// id, and persists the collection. Ids are never reused or changed.
func (s *ArticleStore) AddMany(articles []*domain.NewsArticle) error {
	if len(articles) == 0 {
		return nil
	}

	for _, a := range articles {
		a.ID = s.nextID
		s.nextID++
		if a.Status == "" {
			a.Status = domain.StatusPending
		}
		s.articles = append(s.articles, a)
	}
	return s.save()
}

// All returns the full collection in insertion order.
func (s *ArticleStore) All() []*domain.NewsArticle {
	return s.articles
}

// GetByStatus returns the articles currently in the given status.
func (s *ArticleStore) GetByStatus(status string) []*domain.NewsArticle {
	var out []*domain.NewsArticle
	for _, a := range s.articles {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// GetByID returns the article with the given id, if present.
func (s *ArticleStore) GetByID(id int) (*domain.NewsArticle, bool) {
	for _, a := range s.articles {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// UpdateStatus applies a moderation decision. Legal transitions are
// pending→approved and pending→rejected; re-applying the status an article
// already has is a no-op success. Switching between different terminal
// states is rejected, and an unknown id is an error with no side effects.
func (s *ArticleStore) UpdateStatus(id int, status string) error {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return fmt.Errorf("invalid target status %q", status)
	}

	for _, a := range s.articles {
		if a.ID != id {
			continue
		}
		if a.Status == status {
			return nil
		}
		if a.Status != domain.StatusPending {
			return fmt.Errorf("article %d is already %s", id, a.Status)
		}
		a.Status = status
		return s.save()
	}
	return fmt.Errorf("article %d not found", id)
}

// Count tallies the collection by status.
func (s *ArticleStore) Count() Counts {
	c := Counts{Total: len(s.articles)}
	for _, a := range s.articles {
		switch a.Status {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusApproved:
			c.Approved++
		case domain.StatusRejected:
			c.Rejected++
		}
	}
	return c
}
