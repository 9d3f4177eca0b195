// Package crawl implements the harvest traversal: the orchestrator that
// walks a site from its root to authors and books, the recursive
// driller that explores index pages, and the linear surfer that follows
// paginated content chains. The whole traversal is strictly sequential:
// one page is fetched at a time through one shared fetcher, mirroring a
// single human browsing session.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/fwojciec/scriptorium"
)

// Config holds the traversal's tuned heuristics. Zero fields are
// replaced with the defaults below.
type Config struct {
	// MaxDepth caps the driller's recursion per book. Cyclic or
	// malformed link graphs terminate at this depth even if the visited
	// set were defeated.
	MaxDepth int

	// ResetGuardMinSeq arms the wraparound guard: once the surf
	// sequence exceeds it, reaching a front-matter page stops the
	// chain. Some sites loop their last page back to the book
	// introduction.
	ResetGuardMinSeq int

	// FrontMatter markers matched (case-insensitively) against a
	// content page's title by the wraparound guard.
	FrontMatter []string
}

// DefaultConfig returns the traversal configuration used in production.
func DefaultConfig() Config {
	return Config{
		MaxDepth:         10,
		ResetGuardMinSeq: 5,
		FrontMatter:      []string{"简介", "序章", "序言", "前言", "introduction", "foreword"},
	}
}

// Stats holds the outcome of a harvest run.
type Stats struct {
	Authors  int
	Books    int
	Chapters int
	Segments int

	// Failures counts branch-local fetch/parse failures. They never
	// abort the run.
	Failures int
}

// Harvester orchestrates the crawl: site root, authors, books, and the
// per-book drill. All fields except Fetcher, Classifier and the four
// store services are optional.
type Harvester struct {
	Fetcher    scriptorium.Fetcher
	Classifier scriptorium.Classifier
	Authors    scriptorium.AuthorService
	Books      scriptorium.BookService
	Chapters   scriptorium.ChapterService
	Segments   scriptorium.SegmentService

	// Sitemaps, when set, provides fallback author discovery for sites
	// whose root page lists nothing usable.
	Sitemaps scriptorium.SitemapService

	// Limiter spaces requests per host. Nil disables politeness delays.
	Limiter *DomainLimiter

	// Logger receives progress and branch-failure logs.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// RetryDelays configures fetch retry backoff.
	// Defaults to DefaultRetryDelays().
	RetryDelays []time.Duration

	Config Config

	stats  *Stats
	bodies *bodyGuard
}

// Run executes a full harvest from the site root. Only an unreachable
// root is fatal; everything below it is branch-local. Re-running
// against an unchanged source creates no duplicate rows: persistence is
// idempotent by canonical URL.
func (h *Harvester) Run(ctx context.Context, rootURL string) (*Stats, error) {
	h.stats = &Stats{}
	h.bodies = newBodyGuard()
	h.init()

	html, err := h.fetch(ctx, rootURL)
	if err != nil {
		return nil, scriptorium.Errorf(scriptorium.EUNAVAILABLE, "site root unreachable: %v", err)
	}

	// The root's outbound links are the permanent exclusion set:
	// site-wide furniture, never book content.
	rootLinks, err := h.Classifier.Links(html, rootURL)
	if err != nil {
		return nil, err
	}
	exclude := scriptorium.NewURLSet()
	for _, link := range rootLinks {
		exclude.Add(link.URL)
	}

	authorLinks, err := h.authorLinks(ctx, html, rootURL)
	if err != nil {
		return nil, err
	}

	for _, link := range authorLinks {
		if ctx.Err() != nil {
			return h.stats, ctx.Err()
		}
		h.harvestAuthor(ctx, link, exclude)
	}

	h.Logger.Info("harvest finished",
		"authors", h.stats.Authors,
		"books", h.stats.Books,
		"chapters", h.stats.Chapters,
		"segments", h.stats.Segments,
		"failures", h.stats.Failures,
	)
	return h.stats, nil
}

// authorLinks enumerates the top-level author links from the root page,
// falling back to sitemap discovery when the root yields none.
func (h *Harvester) authorLinks(ctx context.Context, html, rootURL string) ([]scriptorium.Link, error) {
	cls, err := h.Classifier.Classify(html, rootURL, nil)
	if err != nil {
		return nil, err
	}
	if len(cls.Links) > 0 {
		return cls.Links, nil
	}

	if h.Sitemaps == nil {
		return nil, nil
	}
	h.Logger.Info("root page lists no authors, trying sitemap", "url", rootURL)
	urls, err := h.Sitemaps.DiscoverURLs(ctx, rootURL)
	if err != nil {
		h.Logger.Warn("sitemap discovery failed", "url", rootURL, "err", err)
		return nil, nil
	}
	links := make([]scriptorium.Link, 0, len(urls))
	for _, u := range urls {
		links = append(links, scriptorium.Link{URL: u, Text: nameFromURL(u)})
	}
	return links, nil
}

// harvestAuthor creates the author, enumerates the author page's book
// links filtered against the exclusion set, and drills each book with a
// fresh visited set. Failures are branch-local.
func (h *Harvester) harvestAuthor(ctx context.Context, link scriptorium.Link, exclude scriptorium.URLSet) {
	author := &scriptorium.Author{Name: link.Text, CanonicalURL: link.URL}
	if err := h.Authors.EnsureAuthor(ctx, author); err != nil {
		h.branchFailure("ensure author", link.URL, err)
		return
	}
	h.stats.Authors++

	html, err := h.fetch(ctx, link.URL)
	if err != nil {
		h.branchFailure("fetch author page", link.URL, err)
		return
	}
	cls, err := h.Classifier.Classify(html, link.URL, exclude)
	if err != nil {
		h.branchFailure("classify author page", link.URL, err)
		return
	}
	if cls.Kind != scriptorium.PageIndex {
		h.Logger.Info("author page lists no books", "url", link.URL, "kind", cls.Kind.String())
		return
	}

	for _, bookLink := range cls.Links {
		if ctx.Err() != nil {
			return
		}
		book := &scriptorium.Book{
			AuthorID:     author.ID,
			Title:        bookLink.Text,
			CanonicalURL: bookLink.URL,
			Category:     cls.Title,
		}
		if err := h.Books.EnsureBook(ctx, book); err != nil {
			h.branchFailure("ensure book", bookLink.URL, err)
			continue
		}
		h.stats.Books++
		h.Logger.Info("drilling book", "title", book.Title, "url", book.CanonicalURL)

		// Fresh visited set per book: visited state never leaks
		// across books.
		trail := NewTrail(exclude)
		if err := h.Drill(ctx, bookLink.URL, book.ID, []string{book.Title}, trail, 0); err != nil {
			h.branchFailure("drill book", bookLink.URL, err)
		}
	}
}

// init fills optional fields so the exported entry points can be used
// directly in tests without a full Run.
func (h *Harvester) init() {
	if h.Logger == nil {
		h.Logger = slog.Default()
	}
	if h.Config.MaxDepth == 0 {
		h.Config.MaxDepth = DefaultConfig().MaxDepth
	}
	if h.Config.ResetGuardMinSeq == 0 {
		h.Config.ResetGuardMinSeq = DefaultConfig().ResetGuardMinSeq
	}
	if h.Config.FrontMatter == nil {
		h.Config.FrontMatter = DefaultConfig().FrontMatter
	}
	if h.stats == nil {
		h.stats = &Stats{}
	}
	if h.bodies == nil {
		h.bodies = newBodyGuard()
	}
}

// fetch applies the politeness limiter and retry backoff around the
// fetcher.
func (h *Harvester) fetch(ctx context.Context, rawURL string) (string, error) {
	if h.Limiter != nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := h.Limiter.Wait(ctx, u.Host); err != nil {
				return "", err
			}
		}
	}
	delays := h.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, h.Fetcher.Fetch, nil, delays)
}

// branchFailure logs a branch-local failure; traversal continues with
// the remaining siblings.
func (h *Harvester) branchFailure(op, url string, err error) {
	h.stats.Failures++
	h.Logger.Warn("branch failure", "op", op, "url", url, "err", err)
}

// isFrontMatter reports whether a content page's title looks like book
// front matter (introduction-like).
func (h *Harvester) isFrontMatter(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range h.Config.FrontMatter {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// nameFromURL derives a display name from a URL's last path segment.
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if name == "" || name == "." || name == "/" {
		return u.Host
	}
	return name
}
