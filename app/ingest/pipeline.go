package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/news"
	"github.com/teerapat-l/presswire/app/storage"
)

// Title length cap applied before persisting, matching the source listing cap
const maxTitleRunes = 500

// Words per minute used for the reading time estimate
const readingWordsPerMinute = 200

const readMoreLabel = "อ่านเพิ่มเติม"

// Pipeline ingests a batch of externally sourced articles: fetch, dedup by
// source URL, normalize, tag, decide storage tier, persist. Every external
// call is individually recoverable; a single record's failure never aborts
// the batch.
type Pipeline struct {
	extractor Extractor
	tagger    Tagger
	fullText  FullTextExtractor
	posts     database.PostRepository
	hybrid    *storage.Hybrid
	maxTags   int
}

// NewPipeline wires the pipeline's collaborators. tagger and fullText may be
// nil when the corresponding feature is disabled.
func NewPipeline(extractor Extractor, tagger Tagger, fullText FullTextExtractor,
	posts database.PostRepository, hybrid *storage.Hybrid, maxTags int) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		tagger:    tagger,
		fullText:  fullText,
		posts:     posts,
		hybrid:    hybrid,
		maxTags:   maxTags,
	}
}

// Run executes one ingestion batch for a source and reports aggregate counts.
// It always returns a structured result, never panics across this boundary.
func (p *Pipeline) Run(ctx context.Context, source *news.Source, limit int, keyword string) Result {
	started := time.Now()

	articles, err := p.extractor.Fetch(ctx, limit, keyword)
	if err != nil {
		slog.Error("Failed to fetch articles", "source", source.Name, "error", err)
		return failure(fmt.Sprintf("failed to fetch articles: %v", err))
	}

	if len(articles) == 0 {
		return Result{
			Success:   true,
			Message:   "no articles fetched",
			Timestamp: time.Now().UTC(),
		}
	}

	// Base value for this batch's fetch_order sequence. Failing here means
	// the document store is unreachable, the only batch-aborting condition.
	maxOrder, err := p.posts.MaxFetchOrder()
	if err != nil {
		slog.Error("Document store unavailable", "source", source.Name, "error", err)
		return failure(fmt.Sprintf("document store unavailable: %v", err))
	}

	var result Result
	seq := 0

	for _, article := range articles {
		exists, err := p.posts.ExistsBySourceURL(article.SourceURL)
		if err != nil {
			slog.Error("Duplicate check failed", "source", source.Name, "url", article.SourceURL, "error", err)
			result.Errors++
			continue
		}
		if exists {
			slog.Debug("Article already ingested, skipping", "source", source.Name, "url", article.SourceURL)
			result.Skipped++
			continue
		}

		seq++
		post := p.buildPost(ctx, source, article, keyword, maxOrder+seq)

		if err := p.posts.InsertPost(post); err != nil {
			slog.Error("Failed to persist post", "source", source.Name, "url", article.SourceURL, "error", err)
			result.Errors++
			continue
		}

		result.Saved++
		result.Posts = append(result.Posts, post)
	}

	slog.Info("Ingestion run completed",
		"source", source.Name,
		"duration", time.Since(started),
		"total", len(articles),
		"saved", result.Saved,
		"skipped", result.Skipped,
		"errors", result.Errors)

	result.Success = true
	result.Message = fmt.Sprintf("processed %d articles", len(articles))
	result.Timestamp = time.Now().UTC()

	return result
}

// buildPost assembles the persisted record for one new article. fetchOrder is
// the caller-assigned position in the ingestion sequence.
func (p *Pipeline) buildPost(ctx context.Context, source *news.Source, article news.Article, keyword string, fetchOrder int) database.Post {
	content := article.Content

	if p.fullText != nil && source.Settings.ExtractFullText {
		if text, err := p.fullText.Run(ctx, article.SourceURL); err != nil {
			slog.Warn("Full text extraction failed, keeping listing content", "url", article.SourceURL, "error", err)
		} else if len(text) > len(content) {
			content = text
		}
	}

	if article.SourceURL != "" {
		content = content + "\n\n" + readMoreLabel + ": " + article.SourceURL
	}

	publishedAt := article.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = news.ParseSourceDate(article.RawDate)
	}

	placement := p.hybrid.Place(ctx, content, blobName(source.Name, article.Slug))

	now := time.Now().UTC()

	return database.Post{
		ID:             uuid.NewString(),
		Title:          truncateTitle(article.Title),
		Author:         article.Author,
		ThumbnailURL:   article.ThumbnailURL,
		Content:        placement.Content,
		ContentStorage: placement.Tier,
		ContentBlobURL: placement.BlobURL,
		Tags:           p.collectTags(ctx, source, article, keyword),
		SourceName:     source.Name,
		SourceURL:      article.SourceURL,
		OriginalDate:   article.RawDate,
		ReadingTime:    readingTime(content),
		AutoFetched:    true,
		FetchOrder:     fetchOrder,
		FetchedAt:      &now,
		CreatedAt:      publishedAt,
		UpdatedAt:      now,
	}
}

// collectTags merges the source's base tags, the run keyword, and advisory AI
// tags, preserving insertion order and suppressing duplicates
func (p *Pipeline) collectTags(ctx context.Context, source *news.Source, article news.Article, keyword string) []string {
	tags := make([]string, 0, len(source.BaseTags)+p.maxTags+1)
	seen := make(map[string]struct{})

	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, tag := range source.BaseTags {
		add(tag)
	}
	add(keyword)

	if p.tagger != nil {
		aiTags, err := p.tagger.Tags(ctx, article.Title, article.Content, p.maxTags)
		if err != nil {
			slog.Warn("Tag generation failed, keeping base tags", "url", article.SourceURL, "error", err)
		}
		for _, tag := range aiTags {
			add(tag)
		}
	}

	return tags
}

func blobName(sourceName, slug string) string {
	if slug == "" {
		slug = "post"
	}
	return fmt.Sprintf("%s-%s-%s.txt", sourceName, slug, uuid.NewString())
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes])
}

func readingTime(content string) int {
	minutes := len(strings.Fields(content)) / readingWordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
