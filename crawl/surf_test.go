package crawl_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/scriptorium"
	"github.com/fwojciec/scriptorium/crawl"
	"github.com/fwojciec/scriptorium/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain describes a surf fixture page.
type chainPage struct {
	title    string
	segments []string
	next     string
	kind     scriptorium.PageKind
}

// newSurfHarvester wires a Harvester over a fixed pagination chain and
// records the chapters it persists.
func newSurfHarvester(pages map[string]chainPage, chapters *[]*scriptorium.Chapter) *crawl.Harvester {
	return &crawl.Harvester{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html></html>", nil
			},
		},
		Classifier: &mock.Classifier{
			ClassifyFn: func(html, pageURL string, exclude scriptorium.URLSet) (*scriptorium.Classification, error) {
				page, ok := pages[pageURL]
				if !ok {
					return &scriptorium.Classification{Kind: scriptorium.PageEmpty}, nil
				}
				kind := page.kind
				if kind == scriptorium.PageEmpty && len(page.segments) > 0 {
					kind = scriptorium.PageContent
				}
				return &scriptorium.Classification{
					Kind:     kind,
					Title:    page.title,
					Segments: page.segments,
					NextURL:  page.next,
				}, nil
			},
		},
		Chapters: &mock.ChapterService{
			EnsureChapterFn: func(ctx context.Context, chapter *scriptorium.Chapter) error {
				chapter.ID = chapter.CanonicalURL
				*chapters = append(*chapters, chapter)
				return nil
			},
		},
		Segments: &mock.SegmentService{
			CreateSegmentsFn: func(ctx context.Context, segments []*scriptorium.Segment) error {
				return nil
			},
		},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		RetryDelays: []time.Duration{},
	}
}

func TestHarvester_Surf_FollowsChainToEnd(t *testing.T) {
	t.Parallel()

	pages := map[string]chainPage{
		"https://example.com/1": {segments: []string{"甲"}, next: "https://example.com/2"},
		"https://example.com/2": {segments: []string{"乙"}, next: "https://example.com/3"},
		"https://example.com/3": {segments: []string{"丙"}},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)

	seq, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "第一卷", 1, crawl.NewTrail(nil))
	require.NoError(t, err)

	assert.Equal(t, 4, seq)
	require.Len(t, chapters, 3)
	assert.Equal(t, "第一卷 - Part 1", chapters[0].Title)
	assert.Equal(t, "第一卷 - Part 3", chapters[2].Title)
	assert.Equal(t, 3, chapters[2].Sequence)
}

func TestHarvester_Surf_CycleStopsWithinOneStep(t *testing.T) {
	t.Parallel()

	pages := map[string]chainPage{
		"https://example.com/1": {segments: []string{"甲"}, next: "https://example.com/2"},
		"https://example.com/2": {segments: []string{"乙"}, next: "https://example.com/1"},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)

	seq, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "卷", 1, crawl.NewTrail(nil))
	require.NoError(t, err)

	assert.Equal(t, 3, seq)
	assert.Len(t, chapters, 2, "the chain halts when the next link points back into the session")
}

func TestHarvester_Surf_SelfLinkStops(t *testing.T) {
	t.Parallel()

	pages := map[string]chainPage{
		"https://example.com/1": {segments: []string{"甲"}, next: "https://example.com/1"},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)

	_, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "卷", 1, crawl.NewTrail(nil))
	require.NoError(t, err)

	assert.Len(t, chapters, 1)
}

func TestHarvester_Surf_NonContentStops(t *testing.T) {
	t.Parallel()

	pages := map[string]chainPage{
		"https://example.com/1": {segments: []string{"甲"}, next: "https://example.com/2"},
		"https://example.com/2": {kind: scriptorium.PageIndex},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)

	_, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "卷", 1, crawl.NewTrail(nil))
	require.NoError(t, err)

	assert.Len(t, chapters, 1, "an index page ends the linear section")
}

func TestHarvester_Surf_WraparoundGuard(t *testing.T) {
	t.Parallel()

	pages := map[string]chainPage{
		"https://example.com/1": {title: "第一章", segments: []string{"甲"}, next: "https://example.com/2"},
		"https://example.com/2": {title: "第二章", segments: []string{"乙"}, next: "https://example.com/3"},
		"https://example.com/3": {title: "本书简介", segments: []string{"丙"}},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)
	h.Config = crawl.Config{ResetGuardMinSeq: 2}

	_, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "卷", 1, crawl.NewTrail(nil))
	require.NoError(t, err)

	assert.Len(t, chapters, 2, "a front-matter title past the guard threshold reads as a wraparound")
}

func TestHarvester_Surf_FrontMatterAtChainStartIsKept(t *testing.T) {
	t.Parallel()

	// Books legitimately open with an introduction; the guard must not
	// fire at the start of a chain.
	pages := map[string]chainPage{
		"https://example.com/1": {title: "简介", segments: []string{"甲"}, next: "https://example.com/2"},
		"https://example.com/2": {title: "第一章", segments: []string{"乙"}},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)
	h.Config = crawl.Config{ResetGuardMinSeq: 5}

	_, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "卷", 1, crawl.NewTrail(nil))
	require.NoError(t, err)

	assert.Len(t, chapters, 2)
}

func TestHarvester_Surf_DuplicateBodyStops(t *testing.T) {
	t.Parallel()

	// Distinct URLs rendering identical bodies are a mirrored chain.
	pages := map[string]chainPage{
		"https://example.com/1": {segments: []string{"同一段"}, next: "https://example.com/2"},
		"https://example.com/2": {segments: []string{"另一段"}, next: "https://example.com/3"},
		"https://example.com/3": {segments: []string{"同一段"}, next: "https://example.com/4"},
		"https://example.com/4": {segments: []string{"丁"}},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)

	_, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "卷", 1, crawl.NewTrail(nil))
	require.NoError(t, err)

	assert.Len(t, chapters, 2, "the repeated body stops the chain before persisting a duplicate")
}

func TestHarvester_Surf_VisitedPageStops(t *testing.T) {
	t.Parallel()

	pages := map[string]chainPage{
		"https://example.com/1": {segments: []string{"甲"}},
	}
	var chapters []*scriptorium.Chapter
	h := newSurfHarvester(pages, &chapters)

	trail := crawl.NewTrail(nil)
	trail.Visited.Add("https://example.com/1")

	seq, err := h.Surf(context.Background(), "https://example.com/1", "book-1", "卷", 1, trail)
	require.NoError(t, err)

	assert.Equal(t, 1, seq)
	assert.Empty(t, chapters)
}
