package scriptorium

import "context"

// Segment represents one line of chapter text. Segments are unique by
// (chapter ID, sequence); text is non-empty and has already passed the
// classifier's admission filter.
type Segment struct {
	ID        string `json:"id"`
	ChapterID string `json:"chapterId"`
	Sequence  int    `json:"sequence"`
	Text      string `json:"text"`
}

// Validate returns an error if the segment contains invalid fields.
func (s *Segment) Validate() error {
	if s.ChapterID == "" {
		return Errorf(EINVALID, "segment chapter ID required")
	}
	if s.Sequence < 1 {
		return Errorf(EINVALID, "segment sequence must be positive")
	}
	if s.Text == "" {
		return Errorf(EINVALID, "segment text required")
	}
	return nil
}

// SegmentService represents a service for managing segments.
type SegmentService interface {
	// CreateSegments batch-inserts segments. Rows are keyed by
	// (chapter ID, sequence); re-inserting an existing key is a no-op,
	// so re-processing a partially populated chapter cannot duplicate
	// rows.
	CreateSegments(ctx context.Context, segments []*Segment) error

	// FindSegments retrieves segments matching the filter,
	// ordered by sequence.
	FindSegments(ctx context.Context, filter SegmentFilter) ([]*Segment, error)
}

// SegmentFilter represents a filter for FindSegments.
type SegmentFilter struct {
	ChapterID *string `json:"chapterId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
