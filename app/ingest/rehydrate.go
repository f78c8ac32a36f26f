package ingest

import (
	"context"
	"log/slog"

	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/storage"
)

// Rehydrator resolves blob-tier content references back into full text for
// read-side responses. It post-processes in-memory copies only and never
// touches the persisted records.
type Rehydrator struct {
	blobs storage.BlobStore
}

func NewRehydrator(blobs storage.BlobStore) *Rehydrator {
	return &Rehydrator{blobs: blobs}
}

// Run returns the posts with blob-tier content replaced by its resolved full
// text. A failed blob read leaves that post's stored preview in place; no
// post is ever dropped from the result.
func (r *Rehydrator) Run(ctx context.Context, posts []database.Post) []database.Post {
	out := make([]database.Post, len(posts))
	copy(out, posts)

	if r.blobs == nil {
		return out
	}

	for i := range out {
		if out[i].ContentStorage != storage.TierBlob || out[i].ContentBlobURL == "" {
			continue
		}

		content, err := r.blobs.Read(ctx, out[i].ContentBlobURL)
		if err != nil {
			slog.Warn("Blob read failed, keeping stored preview", "post_id", out[i].ID, "blob_url", out[i].ContentBlobURL, "error", err)
			continue
		}

		out[i].Content = content
	}

	return out
}
