package scriptorium

import (
	"context"
	"time"
)

// Chapter represents one harvested content page of a book. Chapters are
// unique by canonical URL; Sequence is strictly increasing within one
// traversal branch of the owning book.
type Chapter struct {
	ID           string    `json:"id"`
	BookID       string    `json:"bookId"`
	Title        string    `json:"title"`
	Sequence     int       `json:"sequence"`
	CanonicalURL string    `json:"canonicalUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the chapter contains invalid fields.
func (c *Chapter) Validate() error {
	if c.BookID == "" {
		return Errorf(EINVALID, "chapter book ID required")
	}
	if c.CanonicalURL == "" {
		return Errorf(EINVALID, "chapter canonical URL required")
	}
	if c.Sequence < 1 {
		return Errorf(EINVALID, "chapter sequence must be positive")
	}
	return nil
}

// ChapterService represents a service for managing chapters.
// Chapters are append-only; there are no update or delete operations.
type ChapterService interface {
	// EnsureChapter looks up a chapter by canonical URL and returns the
	// existing row, or inserts a new one. The chapter's ID is populated
	// either way.
	EnsureChapter(ctx context.Context, chapter *Chapter) error

	// FindChapters retrieves chapters matching the filter,
	// ordered by sequence.
	FindChapters(ctx context.Context, filter ChapterFilter) ([]*Chapter, error)
}

// ChapterFilter represents a filter for FindChapters.
type ChapterFilter struct {
	ID           *string `json:"id"`
	BookID       *string `json:"bookId"`
	CanonicalURL *string `json:"canonicalUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
