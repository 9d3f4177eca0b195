// Package goquery implements the page classifier over parsed HTML.
// It decides whether an arbitrary page is prose content, a navigation
// index, or neither, without prior knowledge of the site's markup.
package goquery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scriptorium"
)

// Compile-time interface verification.
var _ scriptorium.Classifier = (*Classifier)(nil)

// Config holds the classifier's tuned heuristics. The thresholds were
// validated against a labeled corpus of known content and index pages;
// zero fields are replaced with the defaults below.
type Config struct {
	// MinContentChars is the minimum number of target-script characters
	// a block must render before it can be considered content-bearing.
	MinContentChars int

	// MinCharsPerLink is the minimum ratio of target-script characters
	// to hyperlinks for a block containing links. Link-dense blocks
	// (menus, chapter lists) fall below it.
	MinCharsPerLink int

	// MinSegmentRunes is the minimum length of a cleaned line. Shorter
	// lines are dropped unless they match the footnote marker pattern.
	MinSegmentRunes int

	// Scripts are the Unicode ranges counted as target-script prose.
	Scripts []*unicode.RangeTable

	// NextMarkers and PrevMarkers identify pagination links by their
	// visible text. A "next" link must contain a next marker and no
	// previous marker.
	NextMarkers []string
	PrevMarkers []string

	// NavPhrases is the closed list of navigational link texts that are
	// never reported as sub-links and never kept as segments.
	NavPhrases []string

	// Boilerplate fragments; cleaned lines containing one are dropped.
	Boilerplate []string
}

// DefaultConfig returns the classifier configuration used in production.
func DefaultConfig() Config {
	return Config{
		MinContentChars: 100,
		MinCharsPerLink: 40,
		MinSegmentRunes: 2,
		Scripts:         []*unicode.RangeTable{unicode.Han},
		NextMarkers:     []string{"下一页", "下一頁", "下一章", "next", "›"},
		PrevMarkers:     []string{"上一页", "上一頁", "上一章", "prev", "‹"},
		NavPhrases: []string{
			"home", "首页", "目录", "table of contents", "back", "返回",
			"上一页", "下一页", "上一章", "下一章",
			"«", "»", "‹", "›", "←", "→",
		},
		Boilerplate: []string{
			"版权所有", "all rights reserved", "回到顶部", "免责声明",
		},
	}
}

// footnoteRE matches pure footnote markers: digits, asterisks, brackets.
// Such lines are kept as segments regardless of length.
var footnoteRE = regexp.MustCompile(`^[0-9*＊※.\-()\[\]（）【】]+$`)

// arrowPrefixRE matches a leading navigational-arrow-plus-short-label
// artifact that some sites render at the top of the content block.
var arrowPrefixRE = regexp.MustCompile(`^[«‹←〈《]+\s*\S{0,6}\s*`)

// candidateSelector lists the block-level elements scanned for content.
const candidateSelector = "p, div, td, section, article, blockquote, main"

// navScopeSelector identifies navigation and menu regions; candidates
// under one are never content-bearing.
const navScopeSelector = "nav, header, footer, aside, [role=navigation], .nav, .navbar, .menu, .sidebar, .breadcrumb"

// Classifier implements scriptorium.Classifier using goquery.
// Classification is deterministic: the same static page always yields
// the same verdict and segment list.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a Classifier. Zero-valued Config fields are
// filled from DefaultConfig.
func NewClassifier(cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.MinContentChars == 0 {
		cfg.MinContentChars = def.MinContentChars
	}
	if cfg.MinCharsPerLink == 0 {
		cfg.MinCharsPerLink = def.MinCharsPerLink
	}
	if cfg.MinSegmentRunes == 0 {
		cfg.MinSegmentRunes = def.MinSegmentRunes
	}
	if cfg.Scripts == nil {
		cfg.Scripts = def.Scripts
	}
	if cfg.NextMarkers == nil {
		cfg.NextMarkers = def.NextMarkers
	}
	if cfg.PrevMarkers == nil {
		cfg.PrevMarkers = def.PrevMarkers
	}
	if cfg.NavPhrases == nil {
		cfg.NavPhrases = def.NavPhrases
	}
	if cfg.Boilerplate == nil {
		cfg.Boilerplate = def.Boilerplate
	}
	return &Classifier{cfg: cfg}
}

// Classify inspects rendered HTML and returns a verdict.
// Content if the selected candidate block yields at least one cleaned
// segment; otherwise index if any sub-links survive filtering;
// otherwise empty.
func (c *Classifier) Classify(rawHTML, pageURL string, exclude scriptorium.URLSet) (*scriptorium.Classification, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, scriptorium.Errorf(scriptorium.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, scriptorium.Errorf(scriptorium.EINVALID, "failed to parse HTML: %v", err)
	}

	title := pageTitle(doc)

	var segments []string
	if candidate := c.selectCandidate(doc); candidate != nil {
		segments = c.cleanSegments(candidate)
	}

	if len(segments) > 0 {
		return &scriptorium.Classification{
			Kind:     scriptorium.PageContent,
			Title:    title,
			Segments: segments,
			NextURL:  c.nextLink(doc, base),
		}, nil
	}

	if links := c.subLinks(doc, base, exclude); len(links) > 0 {
		return &scriptorium.Classification{
			Kind:  scriptorium.PageIndex,
			Title: title,
			Links: links,
		}, nil
	}

	return &scriptorium.Classification{Kind: scriptorium.PageEmpty, Title: title}, nil
}

// Links returns every same-host hyperlink on the page with its visible
// text, in document order, deduplicated, before any navigation
// filtering.
func (c *Classifier) Links(rawHTML, pageURL string) ([]scriptorium.Link, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, scriptorium.Errorf(scriptorium.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, scriptorium.Errorf(scriptorium.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []scriptorium.Link

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) {
			return
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, scriptorium.Link{
			URL:  resolved,
			Text: strings.TrimSpace(sel.Text()),
		})
	})

	return links, nil
}

// selectCandidate scans block-level elements outside navigation regions
// and returns the qualifying block with the highest target-script
// character count. Ties resolve to the last qualifying block in
// document order. Returns nil if no block meets the thresholds.
func (c *Classifier) selectCandidate(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestChars := -1

	doc.Find(candidateSelector).Each(func(_ int, sel *goquery.Selection) {
		if sel.Is(navScopeSelector) || sel.ParentsFiltered(navScopeSelector).Length() > 0 {
			return
		}

		chars := countScript(sel.Text(), c.cfg.Scripts)
		if chars <= c.cfg.MinContentChars {
			return
		}
		if links := sel.Find("a").Length(); links > 0 && chars/links <= c.cfg.MinCharsPerLink {
			return
		}

		if chars >= bestChars {
			bestChars = chars
			best = sel
		}
	})

	return best
}

// cleanSegments renders the candidate's text with a filtering pass over
// its node tree (headings, lists, separators and scripts are skipped),
// splits on line breaks, and applies the segment admission rule.
func (c *Classifier) cleanSegments(sel *goquery.Selection) []string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		renderText(node, &b)
	}

	var segments []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || c.isBoilerplate(line) || c.isNavPhrase(line) {
			continue
		}
		line = strings.TrimSpace(arrowPrefixRE.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		if c.admit(line) {
			segments = append(segments, line)
		}
	}
	return segments
}

// admit applies the segment admission rule: footnote markers are always
// kept; everything else must be at least MinSegmentRunes long and
// contain a target-script character.
func (c *Classifier) admit(line string) bool {
	if footnoteRE.MatchString(line) {
		return true
	}
	if utf8.RuneCountInString(line) < c.cfg.MinSegmentRunes {
		return false
	}
	return containsScript(line, c.cfg.Scripts)
}

// nextLink finds the pagination link: the first hyperlink whose visible
// text contains a next marker and no previous marker.
func (c *Classifier) nextLink(doc *goquery.Document, base *url.URL) string {
	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if text == "" || !containsAny(text, c.cfg.NextMarkers) || containsAny(text, c.cfg.PrevMarkers) {
			return true
		}
		href, _ := sel.Attr("href")
		if isNonHTTPLink(href) {
			return true
		}
		if resolved := resolveURL(base, href); resolved != "" {
			next = resolved
			return false
		}
		return true
	})
	return next
}

// subLinks returns same-scope hyperlinks that are not in the exclusion
// set, not the current page, have non-empty visible text, and whose text
// is not a known navigational phrase.
func (c *Classifier) subLinks(doc *goquery.Document, base *url.URL, exclude scriptorium.URLSet) []scriptorium.Link {
	seen := make(map[string]bool)
	var links []scriptorium.Link

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) {
			return
		}
		if exclude.Has(resolved) || seen[resolved] {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text == "" || c.isNavPhrase(text) {
			return
		}
		seen[resolved] = true
		links = append(links, scriptorium.Link{URL: resolved, Text: text})
	})

	return links
}

func (c *Classifier) isNavPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range c.cfg.NavPhrases {
		if lower == phrase {
			return true
		}
	}
	return false
}

func (c *Classifier) isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range c.cfg.Boilerplate {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// pageTitle returns the page's primary heading, falling back to the
// document title.
func pageTitle(doc *goquery.Document) string {
	var title string
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			title = t
			return false
		}
		return true
	})
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return title
}

// countScript counts the characters of text belonging to the target
// script ranges.
func countScript(text string, scripts []*unicode.RangeTable) int {
	n := 0
	for _, r := range text {
		if unicode.In(r, scripts...) {
			n++
		}
	}
	return n
}

// containsScript reports whether text contains at least one
// target-script character.
func containsScript(text string, scripts []*unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.In(r, scripts...) {
			return true
		}
	}
	return false
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
