package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/scriptorium"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scriptorium.SegmentService = (*SegmentService)(nil)

// SegmentService implements scriptorium.SegmentService using SQLite.
type SegmentService struct {
	db *DB
}

// NewSegmentService creates a new SegmentService.
func NewSegmentService(db *DB) *SegmentService {
	return &SegmentService{db: db}
}

// CreateSegments batch-inserts segments in one transaction. Rows are
// keyed UNIQUE(chapter_id, sequence) and inserted with INSERT OR
// IGNORE, so re-processing a partially populated chapter cannot
// duplicate rows.
func (s *SegmentService) CreateSegments(ctx context.Context, segments []*scriptorium.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	for _, segment := range segments {
		if err := segment.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO segments (id, chapter_id, sequence, text)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, segment := range segments {
		segment.ID = uuid.New().String()
		if _, err := stmt.ExecContext(ctx, segment.ID, segment.ChapterID,
			segment.Sequence, segment.Text); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindSegments retrieves segments matching the filter, ordered by
// sequence.
func (s *SegmentService) FindSegments(ctx context.Context, filter scriptorium.SegmentFilter) ([]*scriptorium.Segment, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, chapter_id, sequence, text FROM segments WHERE 1=1")

	if filter.ChapterID != nil {
		query.WriteString(" AND chapter_id = ?")
		args = append(args, *filter.ChapterID)
	}

	query.WriteString(" ORDER BY sequence ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []*scriptorium.Segment
	for rows.Next() {
		var segment scriptorium.Segment
		if err := rows.Scan(&segment.ID, &segment.ChapterID, &segment.Sequence,
			&segment.Text); err != nil {
			return nil, err
		}
		segments = append(segments, &segment)
	}

	return segments, rows.Err()
}
