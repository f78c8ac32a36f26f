package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/ingest"
	"github.com/teerapat-l/presswire/app/news"
	"github.com/teerapat-l/presswire/app/storage"
)

type FetchNewsTask struct {
	Task
	Source        *news.Source
	httpClient    *http.Client
	postRepo      database.PostRepository
	hybrid        *storage.Hybrid
	tagger        ingest.Tagger
	pageExtractor ingest.FullTextExtractor
	userAgent     string
	maxTags       int
}

func NewFetchNewsTask(sourceName string, source *news.Source, httpClient *http.Client,
	postRepo database.PostRepository, hybrid *storage.Hybrid, tagger ingest.Tagger,
	pageExtractor ingest.FullTextExtractor, userAgent string, maxTags int) *FetchNewsTask {
	return &FetchNewsTask{
		Task:          NewTask(TaskTypeFetchNews, sourceName),
		Source:        source,
		httpClient:    httpClient,
		postRepo:      postRepo,
		hybrid:        hybrid,
		tagger:        tagger,
		pageExtractor: pageExtractor,
		userAgent:     userAgent,
		maxTags:       maxTags,
	}
}

func (t *FetchNewsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	extractor, err := news.NewExtractor(t.Source, t.httpClient, t.userAgent)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	pipeline := ingest.NewPipeline(extractor, t.tagger, t.pageExtractor, t.postRepo, t.hybrid, t.maxTags)

	result := pipeline.Run(ctx, t.Source, t.Source.Settings.Limit, t.Source.Settings.Keyword)
	if !result.Success {
		return fmt.Errorf("ingestion run failed: %s", result.Message)
	}

	slog.Info("Task completed",
		"type", "FetchNews",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"saved", result.Saved,
		"skipped", result.Skipped,
		"errors", result.Errors)

	return nil
}
