package crawl

import "github.com/fwojciec/scriptorium"

// Trail is the explicit traversal context threaded by reference through
// the driller and surfer: the per-book visited set and the permanent
// site-wide exclusion set. The orchestrator creates a fresh Trail for
// every book, so visited state never leaks across books; the exclusion
// set is shared by all of them. There is exactly one writer, so no
// locking is needed.
type Trail struct {
	// Visited holds every canonical URL touched during this book's
	// traversal. A URL is visited at most once.
	Visited scriptorium.URLSet

	// Exclude holds the site root's outbound links: perpetual site
	// furniture that is never book content.
	Exclude scriptorium.URLSet
}

// NewTrail creates a Trail with an empty visited set sharing the given
// exclusion set. A nil exclusion set is replaced with an empty one.
func NewTrail(exclude scriptorium.URLSet) *Trail {
	if exclude == nil {
		exclude = scriptorium.NewURLSet()
	}
	return &Trail{
		Visited: scriptorium.NewURLSet(),
		Exclude: exclude,
	}
}
