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
var _ scriptorium.BookService = (*BookService)(nil)

// BookService implements scriptorium.BookService using SQLite.
type BookService struct {
	db *DB
}

// NewBookService creates a new BookService.
func NewBookService(db *DB) *BookService {
	return &BookService{db: db}
}

// EnsureBook looks up a book by canonical URL and returns the existing
// row, or inserts a new one. A duplicate-key insert is resolved by
// re-selecting the existing row.
func (s *BookService) EnsureBook(ctx context.Context, book *scriptorium.Book) error {
	if err := book.Validate(); err != nil {
		return err
	}

	existing, err := s.findBookByURL(ctx, book.CanonicalURL)
	if err == nil {
		*book = *existing
		return nil
	}
	if scriptorium.ErrorCode(err) != scriptorium.ENOTFOUND {
		return err
	}

	book.ID = uuid.New().String()
	book.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO books (id, author_id, title, canonical_url, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, book.ID, book.AuthorID, book.Title, book.CanonicalURL, book.Category,
		book.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if existing, ferr := s.findBookByURL(ctx, book.CanonicalURL); ferr == nil {
			*book = *existing
			return nil
		}
		return err
	}

	return nil
}

// FindBooks retrieves books matching the filter.
func (s *BookService) FindBooks(ctx context.Context, filter scriptorium.BookFilter) ([]*scriptorium.Book, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, author_id, title, canonical_url, category, created_at FROM books WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.AuthorID != nil {
		query.WriteString(" AND author_id = ?")
		args = append(args, *filter.AuthorID)
	}
	if filter.CanonicalURL != nil {
		query.WriteString(" AND canonical_url = ?")
		args = append(args, *filter.CanonicalURL)
	}

	query.WriteString(" ORDER BY title ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*scriptorium.Book
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

// findBookByURL retrieves a book by its unique canonical URL.
func (s *BookService) findBookByURL(ctx context.Context, canonicalURL string) (*scriptorium.Book, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, title, canonical_url, category, created_at
		FROM books
		WHERE canonical_url = ?
	`, canonicalURL)

	book, err := scanBook(row.Scan)
	if err == sql.ErrNoRows {
		return nil, scriptorium.Errorf(scriptorium.ENOTFOUND, "book not found")
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

func scanBook(scan func(...any) error) (*scriptorium.Book, error) {
	var book scriptorium.Book
	var createdAt string

	if err := scan(&book.ID, &book.AuthorID, &book.Title, &book.CanonicalURL,
		&book.Category, &createdAt); err != nil {
		return nil, err
	}

	var parseErr error
	book.CreatedAt, parseErr = parseRFC3339(createdAt, "created_at")
	if parseErr != nil {
		return nil, fmt.Errorf("book: %w", parseErr)
	}

	return &book, nil
}
