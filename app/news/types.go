package news

import (
	"time"
)

// Article is one raw record returned by a content extractor, in the order the
// source reports it (first item is most recent)
type Article struct {
	Title        string
	Content      string
	SourceURL    string
	Slug         string
	RawDate      string    // Source date string as published, kept for display
	PublishedAt  time.Time // Normalized publish time
	ThumbnailURL string
	Author       string
}

// Configuration types

type Source struct {
	Name           string         // Derived from filename (without .yml extension)
	Kind           string         `yaml:"kind"` // "api" or "rss"
	URL            string         `yaml:"url"`
	ArticleBaseURL string         `yaml:"article_base_url"` // Prefix for slug-based article links (api kind)
	Author         string         `yaml:"author"`
	BaseTags       []string       `yaml:"base_tags"`
	Settings       SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled         bool   `yaml:"enabled"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	Limit           int    `yaml:"limit"`
	Keyword         string `yaml:"keyword"`
	Timeout         int    `yaml:"timeout"` // seconds
	ExtractFullText bool   `yaml:"extract_full_text"`
}
