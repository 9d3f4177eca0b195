package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/scriptorium"
)

// Drill explores one node of a book's link graph depth-first. Index
// pages recurse into their sub-links with an extended breadcrumb; the
// first content page hands off to the surfer, which is assumed to cover
// the remainder of that linear section, so the branch does not recurse
// further. Fetch and parse failures terminate the branch only, never
// the sibling traversal.
//
// The trail's visited set guarantees each URL is visited at most once
// per book; together with the depth cap it bounds the recursion on any
// link graph, including cyclic ones.
func (h *Harvester) Drill(ctx context.Context, rawURL, bookID string, crumbs []string, trail *Trail, depth int) error {
	h.init()

	if err := ctx.Err(); err != nil {
		return err
	}
	if depth > h.Config.MaxDepth {
		h.Logger.Debug("depth cap reached", "url", rawURL, "depth", depth)
		return nil
	}
	if trail.Visited.Has(rawURL) {
		return nil
	}

	html, err := h.fetch(ctx, rawURL)
	if err != nil {
		h.branchFailure("fetch", rawURL, err)
		return nil
	}
	cls, err := h.Classifier.Classify(html, rawURL, trail.Exclude)
	if err != nil {
		h.branchFailure("classify", rawURL, err)
		return nil
	}

	switch cls.Kind {
	case scriptorium.PageContent:
		// The surfer marks the page visited itself.
		_, err := h.Surf(ctx, rawURL, bookID, breadcrumbTitle(crumbs), 1, trail)
		return err

	case scriptorium.PageIndex:
		trail.Visited.Add(rawURL)
		for _, link := range cls.Links {
			next := make([]string, len(crumbs)+1)
			copy(next, crumbs)
			next[len(crumbs)] = link.Text
			if err := h.Drill(ctx, link.URL, bookID, next, trail, depth+1); err != nil {
				return err
			}
		}
		return nil

	default:
		trail.Visited.Add(rawURL)
		return nil
	}
}

// breadcrumbTitle joins the breadcrumb minus the book-root title into
// the surfer's base chapter title. Content found directly at the book
// root keeps the book title.
func breadcrumbTitle(crumbs []string) string {
	if len(crumbs) > 1 {
		return strings.Join(crumbs[1:], " - ")
	}
	if len(crumbs) == 1 {
		return crumbs[0]
	}
	return ""
}
