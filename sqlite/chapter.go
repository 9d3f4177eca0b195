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
var _ scriptorium.ChapterService = (*ChapterService)(nil)

// ChapterService implements scriptorium.ChapterService using SQLite.
type ChapterService struct {
	db *DB
}

// NewChapterService creates a new ChapterService.
func NewChapterService(db *DB) *ChapterService {
	return &ChapterService{db: db}
}

// EnsureChapter looks up a chapter by canonical URL and returns the
// existing row, or inserts a new one. A duplicate-key insert is
// resolved by re-selecting the existing row.
func (s *ChapterService) EnsureChapter(ctx context.Context, chapter *scriptorium.Chapter) error {
	if err := chapter.Validate(); err != nil {
		return err
	}

	existing, err := s.findChapterByURL(ctx, chapter.CanonicalURL)
	if err == nil {
		*chapter = *existing
		return nil
	}
	if scriptorium.ErrorCode(err) != scriptorium.ENOTFOUND {
		return err
	}

	chapter.ID = uuid.New().String()
	chapter.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chapters (id, book_id, title, sequence, canonical_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chapter.ID, chapter.BookID, chapter.Title, chapter.Sequence,
		chapter.CanonicalURL, chapter.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if existing, ferr := s.findChapterByURL(ctx, chapter.CanonicalURL); ferr == nil {
			*chapter = *existing
			return nil
		}
		return err
	}

	return nil
}

// FindChapters retrieves chapters matching the filter, ordered by
// sequence.
func (s *ChapterService) FindChapters(ctx context.Context, filter scriptorium.ChapterFilter) ([]*scriptorium.Chapter, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, book_id, title, sequence, canonical_url, created_at FROM chapters WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.BookID != nil {
		query.WriteString(" AND book_id = ?")
		args = append(args, *filter.BookID)
	}
	if filter.CanonicalURL != nil {
		query.WriteString(" AND canonical_url = ?")
		args = append(args, *filter.CanonicalURL)
	}

	query.WriteString(" ORDER BY sequence ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*scriptorium.Chapter
	for rows.Next() {
		chapter, err := scanChapter(rows.Scan)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}

	return chapters, rows.Err()
}

// findChapterByURL retrieves a chapter by its unique canonical URL.
func (s *ChapterService) findChapterByURL(ctx context.Context, canonicalURL string) (*scriptorium.Chapter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, book_id, title, sequence, canonical_url, created_at
		FROM chapters
		WHERE canonical_url = ?
	`, canonicalURL)

	chapter, err := scanChapter(row.Scan)
	if err == sql.ErrNoRows {
		return nil, scriptorium.Errorf(scriptorium.ENOTFOUND, "chapter not found")
	}
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

func scanChapter(scan func(...any) error) (*scriptorium.Chapter, error) {
	var chapter scriptorium.Chapter
	var createdAt string

	if err := scan(&chapter.ID, &chapter.BookID, &chapter.Title, &chapter.Sequence,
		&chapter.CanonicalURL, &createdAt); err != nil {
		return nil, err
	}

	var parseErr error
	chapter.CreatedAt, parseErr = parseRFC3339(createdAt, "created_at")
	if parseErr != nil {
		return nil, fmt.Errorf("chapter: %w", parseErr)
	}

	return &chapter, nil
}
