package scriptorium

// PageKind is the classifier's verdict for a rendered page.
type PageKind int

// Page classification verdicts.
const (
	// PageEmpty means the page is neither prose nor a usable index.
	// Ambiguous pages (no candidate block meets the thresholds, no
	// sub-links) resolve here; this is not an error.
	PageEmpty PageKind = iota

	// PageContent means the page's primary purpose is long-form prose.
	PageContent

	// PageIndex means the page's primary purpose is linking to further
	// pages (listing, table of contents).
	PageIndex
)

// String returns a short human-readable name for the verdict.
func (k PageKind) String() string {
	switch k {
	case PageContent:
		return "content"
	case PageIndex:
		return "index"
	default:
		return "empty"
	}
}

// Link is a hyperlink paired with its visible text.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Classification holds the classifier's output for one page.
type Classification struct {
	Kind PageKind

	// Title is the page's primary heading (content pages).
	Title string

	// Segments are the cleaned prose lines of the selected content
	// block (content pages).
	Segments []string

	// NextURL is the absolute pagination link, or empty if the page has
	// none (content pages).
	NextURL string

	// Links are the filtered same-scope sub-links (index pages).
	Links []Link
}

// URLSet tracks canonical URLs that have been visited or excluded.
// Sets are mutated in place and threaded by reference through the
// traversal; there is exactly one writer, so no locking is needed.
type URLSet map[string]struct{}

// NewURLSet creates a URLSet containing the given URLs.
func NewURLSet(urls ...string) URLSet {
	s := make(URLSet, len(urls))
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add inserts a URL into the set.
func (s URLSet) Add(url string) { s[url] = struct{}{} }

// Has reports whether the URL is in the set.
func (s URLSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s URLSet) Len() int { return len(s) }

// Classifier decides, for an arbitrary rendered page, whether it is
// prose content, a navigation index, or neither, and extracts the
// corresponding segments, pagination link, or sub-links.
type Classifier interface {
	// Classify inspects rendered HTML. The exclude set holds known
	// perpetual site navigation; links in it are never reported as
	// sub-links. Classifying the same page twice yields identical
	// results.
	Classify(html, pageURL string, exclude URLSet) (*Classification, error)

	// Links returns every same-host hyperlink on the page with its
	// visible text, in document order, before any navigation filtering.
	// The orchestrator uses this to capture the site root's outbound
	// links as the exclusion set; it also backs the read-only
	// single-page link extraction surface.
	Links(html, pageURL string) ([]Link, error)
}
