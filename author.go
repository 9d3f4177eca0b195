package scriptorium

import (
	"context"
	"time"
)

// Author represents a writer whose books are harvested from a site.
// Authors are unique by name; the name is the fallback idempotency key
// because author pages occasionally move to new URLs.
type Author struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CanonicalURL string    `json:"canonicalUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the author contains invalid fields.
func (a *Author) Validate() error {
	if a.Name == "" {
		return Errorf(EINVALID, "author name required")
	}
	if a.CanonicalURL == "" {
		return Errorf(EINVALID, "author canonical URL required")
	}
	return nil
}

// AuthorService represents a service for managing authors.
// Authors are append-only; there are no update or delete operations.
type AuthorService interface {
	// EnsureAuthor looks up an author by name and returns the existing
	// row, or inserts a new one. The author's ID is populated either way.
	EnsureAuthor(ctx context.Context, author *Author) error

	// FindAuthors retrieves authors matching the filter.
	FindAuthors(ctx context.Context, filter AuthorFilter) ([]*Author, error)
}

// AuthorFilter represents a filter for FindAuthors.
type AuthorFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
