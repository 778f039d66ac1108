// Package submit delivers ingested articles to the downstream CRM API and
// maps its idempotency protocol: 201 created, 409 already ingested.
package submit

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/aqparat-hq/aqparat-news-aggregator/internal/domain"
	"github.com/aqparat-hq/aqparat-news-aggregator/internal/logger"
	"github.com/go-resty/resty/v2"
)

// Result classifies one submission attempt.
type Result int

const (
	// Delivered: downstream accepted the article (HTTP 201).
	Delivered Result = iota
	// Conflict: downstream already holds this article (HTTP 409). Not a failure.
	Conflict
	// Failed: any other status, a connection failure, or a timeout.
	Failed
)

func (r Result) String() string {
	switch r {
	case Delivered:
		return "delivered"
	case Conflict:
		return "conflict"
	default:
		return "failed"
	}
}

// Payload is the downstream submission body. Both language field pairs are
// always present; the pair for the undetected language is empty.
type Payload struct {
	TitleKZ         string `json:"title_kz"`
	TitleRU         string `json:"title_ru"`
	DescriptionKZ   string `json:"description_kz"`
	DescriptionRU   string `json:"description_ru"`
	ContentTextKZ   string `json:"content_text_kz"`
	ContentTextRU   string `json:"content_text_ru"`
	SourceURL       string `json:"source_url"`
	SourceName      string `json:"source_name"`
	Language        string `json:"language"`
	Category        string `json:"category"`
	KeywordsMatched string `json:"keywords_matched"`
	PhotoURL        string `json:"photo_url"`
}

// PayloadFor builds the submission body for an article.
func PayloadFor(a *domain.NewsArticle) Payload {
	return Payload{
		TitleKZ:         a.TitleKZ,
		TitleRU:         a.TitleRU,
		DescriptionKZ:   a.DescriptionKZ,
		DescriptionRU:   a.DescriptionRU,
		ContentTextKZ:   a.ContentTextKZ,
		ContentTextRU:   a.ContentTextRU,
		SourceURL:       a.SourceURL,
		SourceName:      a.SourceName,
		Language:        a.Language,
		Category:        a.Category,
		KeywordsMatched: strings.Join(a.MatchedKeywords, ", "),
		PhotoURL:        a.PhotoURL,
	}
}

// Client posts articles to the configured submission endpoint. Submission
// failures are reported through the Result, never as errors: a downstream
// outage must not block local persistence.
type Client struct {
	client *resty.Client
	url    string
}

// New builds a submission client for baseURL+endpoint with a request timeout.
func New(baseURL, endpoint string, timeout time.Duration) *Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return &Client{
		client: c,
		url:    strings.TrimRight(baseURL, "/") + endpoint,
	}
}

// Submit posts one article downstream and classifies the outcome.
func (c *Client) Submit(ctx context.Context, article *domain.NewsArticle) Result {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(PayloadFor(article)).
		Post(c.url)
	if err != nil {
		logger.WarnObj("article submission failed", "submit_error", map[string]any{
			"url":        c.url,
			"source_url": article.SourceURL,
			"cause":      classifyCause(err),
			"error":      err.Error(),
		})
		return Failed
	}

	switch resp.StatusCode() {
	case http.StatusCreated:
		return Delivered
	case http.StatusConflict:
		logger.DebugObj("article already ingested downstream", "submit_conflict", map[string]any{
			"source_url": article.SourceURL,
		})
		return Conflict
	default:
		logger.WarnObj("article submission failed", "submit_error", map[string]any{
			"url":        c.url,
			"source_url": article.SourceURL,
			"cause":      "unexpected_status",
			"status":     resp.StatusCode(),
			"body":       bodySnippet(resp.Body()),
		})
		return Failed
	}
}

// Ping posts a marker payload to verify the endpoint is reachable. Statuses
// that prove the backend answered (created, duplicate, validation or auth
// rejection) all count as reachable.
func (c *Client) Ping(ctx context.Context) error {
	marker := Payload{
		TitleKZ:         "Test Article",
		TitleRU:         "Тестовая статья",
		SourceURL:       "https://test.example.com/article",
		SourceName:      "Connectivity Probe",
		Language:        domain.LangKazakh,
		Category:        "general",
		KeywordsMatched: "тест",
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(marker).
		Post(c.url)
	if err != nil {
		return errorWithCause(err)
	}

	switch resp.StatusCode() {
	case http.StatusCreated, http.StatusConflict,
		http.StatusUnprocessableEntity, http.StatusUnauthorized, http.StatusForbidden:
		return nil
	default:
		return errors.New("unexpected status " + resp.Status())
	}
}

// classifyCause distinguishes timeouts from refused connections for log
// lines; anything else is a generic connection error.
func classifyCause(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return "timeout"
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "connection_refused"
	}
	return "connection_error"
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func errorWithCause(err error) error {
	return errors.New(classifyCause(err) + ": " + err.Error())
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}
