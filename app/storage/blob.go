package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BlobStore reads and writes large article content addressed by opaque URLs
type BlobStore interface {
	Write(ctx context.Context, name string, content string) (string, error)
	Read(ctx context.Context, url string) (string, error)
}

// HTTPBlobStore talks to an HTTP blob service: named writes go to
// {base}/{container}/{name} and the returned URL reads back the content
type HTTPBlobStore struct {
	baseURL    string
	container  string
	accessKey  string
	userAgent  string
	httpClient *http.Client
}

var _ BlobStore = (*HTTPBlobStore)(nil)

func NewHTTPBlobStore(baseURL, container, accessKey, userAgent string) *HTTPBlobStore {
	return &HTTPBlobStore{
		baseURL:   strings.TrimRight(baseURL, "/"),
		container: container,
		accessKey: accessKey,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Write uploads content under the given name. Writes are idempotent by name:
// re-uploading the same name overwrites the previous blob.
func (s *HTTPBlobStore) Write(ctx context.Context, name string, content string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, s.container, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if s.accessKey != "" {
		req.Header.Set("X-Access-Key", s.accessKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return url, nil
}

// Read resolves a previously written blob URL back to its content
func (s *HTTPBlobStore) Read(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	if s.accessKey != "" {
		req.Header.Set("X-Access-Key", s.accessKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(data), nil
}
