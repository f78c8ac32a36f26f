package api

import (
	"net/http"
	"time"

	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/ingest"
	"github.com/teerapat-l/presswire/app/news"
	"github.com/teerapat-l/presswire/app/storage"
)

type Handler struct {
	postRepo      database.PostRepository
	sourceCache   *news.SourceCache
	rehydrator    *ingest.Rehydrator
	httpClient    *http.Client
	hybrid        *storage.Hybrid
	tagger        ingest.Tagger
	pageExtractor ingest.FullTextExtractor
	userAgent     string
	maxTags       int
}

// postResponse is the wire shape of a persisted post. Blob-tier content is
// rehydrated before conversion, so Content always carries the displayable text.
type postResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Author         string     `json:"author,omitempty"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	Content        string     `json:"content"`
	ContentStorage string     `json:"content_storage"`
	ContentBlobURL string     `json:"content_blob_url,omitempty"`
	Tags           []string   `json:"tags"`
	SourceName     string     `json:"source_name"`
	SourceURL      string     `json:"source_url"`
	OriginalDate   string     `json:"original_date,omitempty"`
	ReadingTime    int        `json:"reading_time_minutes"`
	AutoFetched    bool       `json:"auto_fetched"`
	FetchOrder     int        `json:"fetch_order"`
	FetchedAt      *time.Time `json:"fetched_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toPostResponse(post database.Post) postResponse {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	return postResponse{
		ID:             post.ID,
		Title:          post.Title,
		Author:         post.Author,
		ThumbnailURL:   post.ThumbnailURL,
		Content:        post.Content,
		ContentStorage: string(post.ContentStorage),
		ContentBlobURL: post.ContentBlobURL,
		Tags:           tags,
		SourceName:     post.SourceName,
		SourceURL:      post.SourceURL,
		OriginalDate:   post.OriginalDate,
		ReadingTime:    post.ReadingTime,
		AutoFetched:    post.AutoFetched,
		FetchOrder:     post.FetchOrder,
		FetchedAt:      post.FetchedAt,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}

func toPostResponses(posts []database.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, toPostResponse(post))
	}
	return out
}
