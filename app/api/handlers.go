package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/ingest"
	"github.com/teerapat-l/presswire/app/news"
	"github.com/teerapat-l/presswire/app/storage"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func NewHandler(postRepo database.PostRepository, sourceCache *news.SourceCache,
	rehydrator *ingest.Rehydrator, httpClient *http.Client, hybrid *storage.Hybrid,
	tagger ingest.Tagger, pageExtractor ingest.FullTextExtractor,
	userAgent string, maxTags int) *Handler {
	return &Handler{
		postRepo:      postRepo,
		sourceCache:   sourceCache,
		rehydrator:    rehydrator,
		httpClient:    httpClient,
		hybrid:        hybrid,
		tagger:        tagger,
		pageExtractor: pageExtractor,
		userAgent:     userAgent,
		maxTags:       maxTags,
	}
}

func (h *Handler) GetPosts(c *gin.Context) {
	limit := parseIntQuery(c, "limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset := parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	posts, err := h.postRepo.GetPosts(limit, offset)
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	posts = h.rehydrator.Run(c.Request.Context(), posts)

	total, err := h.postRepo.GetPostCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_post_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":  toPostResponses(posts),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetPost(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post id parameter"})
		return
	}

	post, err := h.postRepo.GetPost(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_post", "post_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	resolved := h.rehydrator.Run(c.Request.Context(), []database.Post{*post})

	c.JSON(http.StatusOK, toPostResponse(resolved[0]))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if postCount, err := h.postRepo.GetPostCount(); err == nil {
		health["posts"] = postCount
	}

	health["loaded_sources"] = h.sourceCache.GetSourceCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	total, autoFetched, manual, err := h.postRepo.GetPostStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_post_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": gin.H{
			"total":        total,
			"auto_fetched": autoFetched,
			"manual":       manual,
		},
		"sources": gin.H{
			"loaded":  h.sourceCache.GetSourceCount(),
			"enabled": len(h.sourceCache.GetEnabledSources()),
		},
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources := h.sourceCache.GetSources()

	out := make([]map[string]interface{}, 0, len(sources))
	for _, source := range sources {
		out = append(out, map[string]interface{}{
			"name":             source.Name,
			"kind":             source.Kind,
			"url":              source.URL,
			"enabled":          source.Settings.Enabled,
			"limit":            source.Settings.Limit,
			"keyword":          source.Settings.Keyword,
			"refresh_interval": (time.Duration(source.Settings.RefreshInterval) * time.Second).String(),
			"base_tags":        source.BaseTags,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": out,
		"total":   len(out),
	})
}

// APIFetchSource runs one ingestion batch for a source synchronously and
// returns its aggregate result. The optional limit and keyword query
// parameters override the source's configured defaults for this run only.
func (h *Handler) APIFetchSource(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name parameter"})
		return
	}

	source, err := h.sourceCache.GetSource(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	limit := parseIntQuery(c, "limit", source.Settings.Limit)
	if limit < 1 || limit > maxPageLimit {
		limit = source.Settings.Limit
	}

	keyword := c.DefaultQuery("keyword", source.Settings.Keyword)

	extractor, err := news.NewExtractor(source, h.httpClient, h.userAgent)
	if err != nil {
		slog.Error("Failed to build extractor", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build extractor"})
		return
	}

	pipeline := ingest.NewPipeline(extractor, h.tagger, h.pageExtractor, h.postRepo, h.hybrid, h.maxTags)
	result := pipeline.Run(c.Request.Context(), source, limit, keyword)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"success": result.Success,
		"message": result.Message,
		"stats": gin.H{
			"saved":   result.Saved,
			"skipped": result.Skipped,
			"errors":  result.Errors,
		},
		"timestamp": result.Timestamp.Format(time.RFC3339),
		"posts":     toPostResponses(result.Posts),
	})
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
