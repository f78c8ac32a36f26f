package database

import (
	"time"

	"github.com/teerapat-l/presswire/app/storage"
)

// Post represents a persisted article record
type Post struct {
	ID             string
	Title          string
	Author         string
	ThumbnailURL   string
	Content        string
	ContentStorage storage.Tier
	ContentBlobURL string
	Tags           []string
	SourceName     string
	SourceURL      string
	OriginalDate   string // Raw source date string kept for display
	ReadingTime    int    // Estimated reading time in minutes
	AutoFetched    bool
	FetchOrder     int
	FetchedAt      *time.Time
	CreatedAt      time.Time // Source publish time, never rewritten
	UpdatedAt      time.Time
}
