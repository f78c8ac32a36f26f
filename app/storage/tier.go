package storage

import (
	"strings"
	"unicode/utf8"
)

// Tier identifies where a post's full content lives
type Tier string

const (
	TierInline Tier = "inline"
	TierBlob   Tier = "blob"
)

// BlobThreshold is the content size at which full text moves to blob storage.
// Content of exactly this many bytes is already blob-tier.
const BlobThreshold = 5 * 1024

// DefaultPreviewLength bounds the inline preview kept for blob-tier content
const DefaultPreviewLength = 300

const previewEllipsis = "..."

// ShouldStoreInBlob decides the storage tier from the UTF-8 byte length alone
func ShouldStoreInBlob(content string) bool {
	return len(content) >= BlobThreshold
}

// Preview returns content truncated to at most maxLength bytes plus an
// ellipsis marker. The cut prefers the last whitespace boundary, unless that
// boundary falls too early (outside the final fifth of the budget). Content
// that already fits is returned unchanged.
func Preview(content string, maxLength int) string {
	if maxLength <= 0 || len(content) <= maxLength {
		return content
	}

	cut := content[:maxLength]

	// Never split a multi-byte rune at the cut point
	for len(cut) > 0 && !utf8.RuneStart(content[len(cut)]) {
		cut = cut[:len(cut)-1]
	}

	if idx := strings.LastIndexAny(cut, " \t\n"); idx >= maxLength*4/5 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " \t\n") + previewEllipsis
}
