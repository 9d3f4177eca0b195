package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scriptorium"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scriptorium.AuthorService = (*AuthorService)(nil)

// AuthorService implements scriptorium.AuthorService using SQLite.
type AuthorService struct {
	db *DB
}

// NewAuthorService creates a new AuthorService.
func NewAuthorService(db *DB) *AuthorService {
	return &AuthorService{db: db}
}

// EnsureAuthor looks up an author by name and returns the existing row,
// or inserts a new one. Name is the unique key; a duplicate-key insert
// (a concurrent or restarted run) is resolved by re-selecting the
// existing row rather than surfaced as a failure.
func (s *AuthorService) EnsureAuthor(ctx context.Context, author *scriptorium.Author) error {
	if err := author.Validate(); err != nil {
		return err
	}

	existing, err := s.findAuthorByName(ctx, author.Name)
	if err == nil {
		*author = *existing
		return nil
	}
	if scriptorium.ErrorCode(err) != scriptorium.ENOTFOUND {
		return err
	}

	author.ID = uuid.New().String()
	author.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO authors (id, name, canonical_url, created_at)
		VALUES (?, ?, ?, ?)
	`, author.ID, author.Name, author.CanonicalURL, author.CreatedAt.Format(time.RFC3339))
	if err != nil {
		// Lost a unique-key race; reuse whatever row won.
		if existing, ferr := s.findAuthorByName(ctx, author.Name); ferr == nil {
			*author = *existing
			return nil
		}
		return err
	}

	return nil
}

// FindAuthors retrieves authors matching the filter.
func (s *AuthorService) FindAuthors(ctx context.Context, filter scriptorium.AuthorFilter) ([]*scriptorium.Author, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, canonical_url, created_at FROM authors WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*scriptorium.Author
	for rows.Next() {
		author, err := scanAuthor(rows.Scan)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	return authors, rows.Err()
}

// findAuthorByName retrieves an author by its unique name.
func (s *AuthorService) findAuthorByName(ctx context.Context, name string) (*scriptorium.Author, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, canonical_url, created_at
		FROM authors
		WHERE name = ?
	`, name)

	author, err := scanAuthor(row.Scan)
	if err == sql.ErrNoRows {
		return nil, scriptorium.Errorf(scriptorium.ENOTFOUND, "author not found")
	}
	if err != nil {
		return nil, err
	}
	return author, nil
}

func scanAuthor(scan func(...any) error) (*scriptorium.Author, error) {
	var author scriptorium.Author
	var createdAt string

	if err := scan(&author.ID, &author.Name, &author.CanonicalURL, &createdAt); err != nil {
		return nil, err
	}

	var parseErr error
	author.CreatedAt, parseErr = parseRFC3339(createdAt, "created_at")
	if parseErr != nil {
		return nil, fmt.Errorf("author: %w", parseErr)
	}

	return &author, nil
}
