package ingest

import (
	"context"
	"time"

	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/news"
)

// Extractor produces raw article records, most recent first
type Extractor interface {
	Fetch(ctx context.Context, limit int, keyword string) ([]news.Article, error)
}

// Tagger produces advisory tags for an article; failures never block ingestion
type Tagger interface {
	Tags(ctx context.Context, title, content string, maxTags int) ([]string, error)
}

// FullTextExtractor resolves an article page URL to its readable body text
type FullTextExtractor interface {
	Run(ctx context.Context, pageURL string) (string, error)
}

// Result is the aggregate outcome of one ingestion run. In a completed run
// Saved + Skipped + Errors equals the number of extracted articles.
type Result struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Saved     int             `json:"saved"`
	Skipped   int             `json:"skipped"`
	Errors    int             `json:"errors"`
	Timestamp time.Time       `json:"timestamp"`
	Posts     []database.Post `json:"posts,omitempty"`
}

func failure(message string) Result {
	return Result{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
