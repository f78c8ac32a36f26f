package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeBlobStore struct {
	writeErr error
	written  map[string]string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{written: make(map[string]string)}
}

func (f *fakeBlobStore) Write(ctx context.Context, name string, content string) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.written[name] = content
	return "https://blobs.test/articles/" + name, nil
}

func (f *fakeBlobStore) Read(ctx context.Context, url string) (string, error) {
	name := url[strings.LastIndex(url, "/")+1:]
	content, ok := f.written[name]
	if !ok {
		return "", errors.New("blob not found")
	}
	return content, nil
}

func TestHybrid_Place_SmallContentStaysInline(t *testing.T) {
	blobs := newFakeBlobStore()
	hybrid := NewHybrid(blobs)

	placement := hybrid.Place(context.Background(), "short content", "post-1.txt")

	if placement.Tier != TierInline {
		t.Errorf("Expected inline tier, got %s", placement.Tier)
	}
	if placement.Content != "short content" {
		t.Errorf("Inline placement should keep full content, got %q", placement.Content)
	}
	if placement.BlobURL != "" {
		t.Errorf("Inline placement should carry no blob URL, got %q", placement.BlobURL)
	}
	if len(blobs.written) != 0 {
		t.Error("Small content should not touch the blob store")
	}
}

func TestHybrid_Place_LargeContentGoesToBlob(t *testing.T) {
	blobs := newFakeBlobStore()
	hybrid := NewHybrid(blobs)

	large := strings.Repeat("Large article content. ", 500)
	placement := hybrid.Place(context.Background(), large, "post-2.txt")

	if placement.Tier != TierBlob {
		t.Errorf("Expected blob tier, got %s", placement.Tier)
	}
	if placement.BlobURL == "" {
		t.Error("Blob placement must carry a blob URL")
	}
	if len(placement.Content) > DefaultPreviewLength+len("...") {
		t.Errorf("Blob placement content should be a bounded preview, got %d bytes", len(placement.Content))
	}
	if blobs.written["post-2.txt"] != large {
		t.Error("Full content should be uploaded to the blob store")
	}
}

func TestHybrid_Place_BlobFailureFallsBackToInline(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.writeErr = errors.New("storage unavailable")
	hybrid := NewHybrid(blobs)

	large := strings.Repeat("Large article content. ", 500)
	placement := hybrid.Place(context.Background(), large, "post-3.txt")

	if placement.Tier != TierInline {
		t.Errorf("Expected inline fallback, got %s", placement.Tier)
	}
	if placement.Content != large {
		t.Error("Fallback must keep the full content, not a preview")
	}
	if placement.BlobURL != "" {
		t.Errorf("Fallback placement should carry no blob URL, got %q", placement.BlobURL)
	}
}

func TestHybrid_Place_NoBlobStoreConfigured(t *testing.T) {
	hybrid := NewHybrid(nil)

	large := strings.Repeat("Large article content. ", 500)
	placement := hybrid.Place(context.Background(), large, "post-4.txt")

	if placement.Tier != TierInline {
		t.Errorf("Expected inline tier without a blob store, got %s", placement.Tier)
	}
	if placement.Content != large {
		t.Error("Full content should be kept inline when blob storage is disabled")
	}
}
