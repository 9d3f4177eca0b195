package scriptorium

import (
	"context"
	"time"
)

// Book represents a single work by an author. Books are unique by
// canonical URL, which serves as the idempotency key across harvest runs.
type Book struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	Title        string    `json:"title"`
	CanonicalURL string    `json:"canonicalUrl"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the book contains invalid fields.
func (b *Book) Validate() error {
	if b.AuthorID == "" {
		return Errorf(EINVALID, "book author ID required")
	}
	if b.Title == "" {
		return Errorf(EINVALID, "book title required")
	}
	if b.CanonicalURL == "" {
		return Errorf(EINVALID, "book canonical URL required")
	}
	return nil
}

// BookService represents a service for managing books.
// Books are append-only; there are no update or delete operations.
type BookService interface {
	// EnsureBook looks up a book by canonical URL and returns the
	// existing row, or inserts a new one. The book's ID is populated
	// either way.
	EnsureBook(ctx context.Context, book *Book) error

	// FindBooks retrieves books matching the filter.
	FindBooks(ctx context.Context, filter BookFilter) ([]*Book, error)
}

// BookFilter represents a filter for FindBooks.
type BookFilter struct {
	ID           *string `json:"id"`
	AuthorID     *string `json:"authorId"`
	CanonicalURL *string `json:"canonicalUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
