package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/scriptorium"
)

// Surf follows a paginated content chain, persisting one chapter per
// page, and returns the sequence number after the last persisted
// chapter. The chain stops at the first page that:
//
//   - is already in the trail's visited set or in this surf's session
//     set (cycle),
//   - fails to fetch or classify (branch-local failure),
//   - is not content,
//   - looks like book front matter after the sequence has passed the
//     reset guard threshold (the site wrapped around to its start),
//   - renders a body already persisted this run (mirrored URL), or
//   - has no pagination link, or one pointing at itself (natural end).
//
// The trail's visited set is shared with the driller; the session set
// is local to this surf run, so a chain whose next link points back at
// an earlier page of the same chain halts within one step of the
// repeat.
func (h *Harvester) Surf(ctx context.Context, startURL, bookID, baseTitle string, startSeq int, trail *Trail) (int, error) {
	h.init()

	session := scriptorium.NewURLSet()
	seq := startSeq
	pageURL := startURL

	for pageURL != "" {
		if err := ctx.Err(); err != nil {
			return seq, err
		}
		if trail.Visited.Has(pageURL) || session.Has(pageURL) {
			break
		}
		trail.Visited.Add(pageURL)
		session.Add(pageURL)

		html, err := h.fetch(ctx, pageURL)
		if err != nil {
			h.branchFailure("fetch", pageURL, err)
			break
		}
		cls, err := h.Classifier.Classify(html, pageURL, trail.Exclude)
		if err != nil {
			h.branchFailure("classify", pageURL, err)
			break
		}
		if cls.Kind != scriptorium.PageContent {
			break
		}
		if seq > h.Config.ResetGuardMinSeq && h.isFrontMatter(cls.Title) {
			h.Logger.Info("front matter after chain start, treating as wraparound",
				"url", pageURL, "title", cls.Title, "sequence", seq)
			break
		}

		if h.bodies.seen(strings.Join(cls.Segments, "\n")) {
			h.Logger.Info("duplicate content body, stopping chain", "url", pageURL)
			break
		}

		chapter := &scriptorium.Chapter{
			BookID:       bookID,
			Title:        fmt.Sprintf("%s - Part %d", baseTitle, seq),
			Sequence:     seq,
			CanonicalURL: pageURL,
		}
		if err := h.Chapters.EnsureChapter(ctx, chapter); err != nil {
			h.branchFailure("ensure chapter", pageURL, err)
			break
		}

		segments := make([]*scriptorium.Segment, len(cls.Segments))
		for i, text := range cls.Segments {
			segments[i] = &scriptorium.Segment{
				ChapterID: chapter.ID,
				Sequence:  i + 1,
				Text:      text,
			}
		}
		if err := h.Segments.CreateSegments(ctx, segments); err != nil {
			h.branchFailure("create segments", pageURL, err)
			break
		}

		h.stats.Chapters++
		h.stats.Segments += len(segments)
		seq++

		if cls.NextURL == "" || cls.NextURL == pageURL {
			break
		}
		pageURL = cls.NextURL
	}

	return seq, nil
}
