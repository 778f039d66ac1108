package submit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
)

func sampleArticle() *domain.NewsArticle {
	a := &domain.NewsArticle{
		Title:           "Жаңа мектеп ашылды",
		Description:     "Астанада жаңа мектеп ашылды",
		ContentText:     "Астанада жаңа мектеп ашылды деп хабарлайды тілшілер.",
		SourceURL:       "https://stan.kz/news/123",
		SourceName:      "Stan.kz",
		Language:        domain.LangKazakh,
		Category:        "education",
		MatchedKeywords: []string{"мектеп", "білім"},
		Status:          domain.StatusPending,
	}
	a.SetLanguageFields()
	return a
}

func TestSubmitDelivered(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, "/api/news/submit", 2*time.Second)
	if res := c.Submit(context.Background(), sampleArticle()); res != Delivered {
		t.Fatalf("expected Delivered, got %s", res)
	}

	if got.TitleKZ != "Жаңа мектеп ашылды" {
		t.Fatalf("expected kazakh title pair, got %q", got.TitleKZ)
	}
	if got.TitleRU != "" {
		t.Fatalf("russian pair must stay empty for kazakh article, got %q", got.TitleRU)
	}
	if got.KeywordsMatched != "мектеп, білім" {
		t.Fatalf("expected comma-joined keywords, got %q", got.KeywordsMatched)
	}
}

func TestSubmitConflictIsNotFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := New(srv.URL, "/api/news/submit", 2*time.Second)
	if res := c.Submit(context.Background(), sampleArticle()); res != Conflict {
		t.Fatalf("expected Conflict, got %s", res)
	}
}

func TestSubmitUnexpectedStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "/api/news/submit", 2*time.Second)
	if res := c.Submit(context.Background(), sampleArticle()); res != Failed {
		t.Fatalf("expected Failed, got %s", res)
	}
}

func TestSubmitConnectionErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, "/api/news/submit", time.Second)
	if res := c.Submit(context.Background(), sampleArticle()); res != Failed {
		t.Fatalf("expected Failed on refused connection, got %s", res)
	}
}

func TestPingTreatsBackendAnswersAsReachable(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusConflict, http.StatusUnprocessableEntity, http.StatusUnauthorized} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		c := New(srv.URL, "/api/news/submit", 2*time.Second)
		if err := c.Ping(context.Background()); err != nil {
			t.Fatalf("status %d should count as reachable: %v", status, err)
		}
		srv.Close()
	}
}

func TestPingFailsWhenDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, "/api/news/submit", time.Second)
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected error for unreachable backend")
	}
}
