package news

import (
	"context"
	"fmt"
	"net/http"
)

// Extractor fetches raw articles from an external source. Implementations
// return records in the source's freshness order (most recent first) and may
// return fewer than the requested limit, including none.
type Extractor interface {
	Fetch(ctx context.Context, limit int, keyword string) ([]Article, error)
}

// NewExtractor builds the extractor matching the source kind
func NewExtractor(source *Source, httpClient *http.Client, userAgent string) (Extractor, error) {
	switch source.Kind {
	case "api":
		return NewAPIClient(source, httpClient, userAgent), nil
	case "rss":
		return NewRSSClient(source, httpClient, userAgent), nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", source.Kind)
	}
}
