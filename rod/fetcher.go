// Package rod provides a browser-backed implementation of
// scriptorium.Fetcher using headless Chrome. The harvester needs
// rendered DOM, not raw HTML: many book sites assemble their pages with
// JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/scriptorium"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements scriptorium.Fetcher at compile time.
var _ scriptorium.Fetcher = (*Fetcher)(nil)

// DefaultNavigationTimeout bounds each page load. A timeout is a
// branch-local failure for the caller, not fatal to the run.
const DefaultNavigationTimeout = 30 * time.Second

// DefaultRecycleAfter is the number of pages fetched before the browser
// is relaunched. Chrome accumulates memory over a long crawl and the
// baseline never returns to initial levels even with proper page
// cleanup; periodic relaunching keeps a multi-thousand-page harvest
// stable.
const DefaultRecycleAfter = 75

// Fetcher retrieves rendered HTML through one shared headless Chrome
// session, fetching one page at a time like a single human browsing
// session.
type Fetcher struct {
	mu           sync.Mutex
	browser      *rod.Browser
	lnchr        *launcher.Launcher
	navTimeout   time.Duration
	recycleAfter int
	pages        int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithNavigationTimeout sets the per-page navigation timeout.
// Defaults to DefaultNavigationTimeout.
func WithNavigationTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.navTimeout = d
	}
}

// WithRecycleAfter sets the number of pages fetched before the browser
// is relaunched. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called
// when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		navTimeout:   DefaultNavigationTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL, waits for the page to load, and returns
// the rendered HTML. Fetches are serialized: the crawl is strictly
// sequential through this one session.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.pages >= f.recycleAfter {
		f.recycle()
	}

	navCtx, cancel := context.WithTimeout(ctx, f.navTimeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(navCtx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	f.pages++
	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdown()
}

// launch starts a new browser instance with stability flags.
func (f *Fetcher) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.lnchr = lnchr
	f.pages = 0
	return nil
}

// recycle replaces the browser with a fresh one. If the relaunch fails
// the old browser is kept. Must be called with mu held.
func (f *Fetcher) recycle() {
	oldBrowser := f.browser
	oldLauncher := f.lnchr

	if err := f.launch(); err != nil {
		f.browser = oldBrowser
		f.lnchr = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
}

// shutdown closes the browser and launcher. Must be called with mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.lnchr != nil {
		f.lnchr.Kill()
		f.lnchr = nil
	}
	return err
}
