package news

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// RSSClient fetches articles from sources that publish an RSS or Atom feed
type RSSClient struct {
	source       *Source
	httpClient   *http.Client
	userAgent    string
	feedParser   *gofeed.Parser
	limiter      *rate.Limiter
}

var _ Extractor = (*RSSClient)(nil)

func NewRSSClient(source *Source, httpClient *http.Client, userAgent string) *RSSClient {
	return &RSSClient{
		source:     source,
		httpClient: httpClient,
		userAgent:  userAgent,
		feedParser: gofeed.NewParser(),
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

func (c *RSSClient) Fetch(ctx context.Context, limit int, keyword string) ([]Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	data, err := c.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	feed, err := c.feedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]Article, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}

		article := c.normalizeItem(item)

		if keyword != "" && !matchesKeyword(article, keyword) {
			continue
		}

		articles = append(articles, article)
	}

	return articles, nil
}

func (c *RSSClient) normalizeItem(item *gofeed.Item) Article {
	content := item.Content
	if content == "" {
		content = item.Description
	}

	article := Article{
		Title:     strings.TrimSpace(item.Title),
		Content:   CleanHTML(content),
		SourceURL: item.Link,
		RawDate:   item.Published,
		Author:    c.source.Author,
	}

	if item.PublishedParsed != nil {
		article.PublishedAt = item.PublishedParsed.UTC()
	} else {
		article.PublishedAt = ParseSourceDate(item.Published)
	}

	if item.Image != nil {
		article.ThumbnailURL = item.Image.URL
	}

	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		article.Author = item.Authors[0].Name
	}

	return article
}

func (c *RSSClient) fetchFeed(ctx context.Context) ([]byte, error) {
	timeout := time.Duration(c.source.Settings.Timeout) * time.Second
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, c.source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func matchesKeyword(article Article, keyword string) bool {
	keyword = strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(article.Title), keyword) ||
		strings.Contains(strings.ToLower(article.Content), keyword)
}
