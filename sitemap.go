package scriptorium

import "context"

// SitemapService discovers URLs from website sitemaps. The orchestrator
// uses it as a fallback when the site root page lists no author links.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.xml, resolving
	// sitemap indexes recursively. Only URLs on the base URL's host are
	// returned.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
