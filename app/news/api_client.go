package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// APIClient fetches press releases from a government content API that returns
// a JSON listing: { statusCode, data: { total, result: [...] } }
type APIClient struct {
	source     *Source
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

var _ Extractor = (*APIClient)(nil)

func NewAPIClient(source *Source, httpClient *http.Client, userAgent string) *APIClient {
	return &APIClient{
		source:     source,
		httpClient: httpClient,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

type apiEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       struct {
		Total  int       `json:"total"`
		Result []apiItem `json:"result"`
	} `json:"data"`
}

type apiItem struct {
	Title     string `json:"title"`
	Intro     string `json:"intro"`
	Text      string `json:"text"`
	Slug      string `json:"slug"`
	Date      string `json:"date"`
	Thumbnail string `json:"thumbnail"`
}

func (c *APIClient) Fetch(ctx context.Context, limit int, keyword string) ([]Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	data, err := c.fetchListing(ctx, limit, keyword)
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if envelope.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned error status %d: %s", envelope.StatusCode, envelope.Message)
	}

	results := envelope.Data.Result
	if len(results) > limit {
		results = results[:limit]
	}

	slog.Debug("Fetched source listing", "source", c.source.Name, "total", envelope.Data.Total, "results", len(results))

	articles := make([]Article, 0, len(results))
	for _, item := range results {
		content := item.Intro
		if item.Text != "" {
			content = CleanHTML(item.Text)
		}

		articles = append(articles, Article{
			Title:        strings.TrimSpace(item.Title),
			Content:      content,
			SourceURL:    c.articleURL(item.Slug),
			Slug:         item.Slug,
			RawDate:      item.Date,
			PublishedAt:  ParseSourceDate(item.Date),
			ThumbnailURL: item.Thumbnail,
			Author:       c.source.Author,
		})
	}

	return articles, nil
}

func (c *APIClient) fetchListing(ctx context.Context, limit int, keyword string) ([]byte, error) {
	timeout := time.Duration(c.source.Settings.Timeout) * time.Second
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	listURL, err := url.Parse(c.source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	query := listURL.Query()
	query.Set("page", "1")
	query.Set("limit", strconv.Itoa(limit))
	if keyword != "" {
		query.Set("keyword", keyword)
	}
	listURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, listURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "th")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source listing: %w", err)
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

func (c *APIClient) articleURL(slug string) string {
	base := strings.TrimRight(c.source.ArticleBaseURL, "/")
	if base == "" || slug == "" {
		return c.source.URL
	}
	return base + "/" + slug
}
