package storage

import (
	"context"
	"log/slog"
)

// Placement is the storage decision for one post's content. Built only by
// Hybrid.Place so the tier invariant holds by construction: blob placements
// always carry a blob URL, inline placements never do.
type Placement struct {
	Tier    Tier
	Content string
	BlobURL string
}

// Hybrid splits content between the document store and blob storage at the
// size threshold
type Hybrid struct {
	blobs         BlobStore
	previewLength int
}

func NewHybrid(blobs BlobStore) *Hybrid {
	return &Hybrid{
		blobs:         blobs,
		previewLength: DefaultPreviewLength,
	}
}

// Place decides the tier for content and uploads blob-tier content under the
// given name. A failed blob write demotes the post to inline storage with the
// full content rather than losing the write.
func (h *Hybrid) Place(ctx context.Context, content string, name string) Placement {
	if h.blobs == nil || !ShouldStoreInBlob(content) {
		return Placement{Tier: TierInline, Content: content}
	}

	url, err := h.blobs.Write(ctx, name, content)
	if err != nil {
		slog.Warn("Blob upload failed, falling back to inline storage",
			"blob", name, "content_length", len(content), "error", err)
		return Placement{Tier: TierInline, Content: content}
	}

	return Placement{
		Tier:    TierBlob,
		Content: Preview(content, h.previewLength),
		BlobURL: url,
	}
}
