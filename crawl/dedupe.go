package crawl

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scriptorium/bloom"
)

// Body guard sizing. A false positive costs one chapter chain
// truncation, never corrupt data, so a small rate is acceptable.
const (
	bodyGuardExpected = 1_000_000
	bodyGuardFPRate   = 1e-4
)

// bodyGuard detects mirrored pages: distinct URLs that render an
// identical segment body. It keeps xxhash digests of bodies in a Bloom
// filter; the surfer stops a chain when it reaches a body it has
// already persisted this run.
type bodyGuard struct {
	filter *bloom.Filter
}

func newBodyGuard() *bodyGuard {
	return &bodyGuard{
		filter: bloom.NewFilter(bodyGuardExpected, bodyGuardFPRate),
	}
}

// seen test-and-adds the body's digest, reporting whether it was
// already present.
func (g *bodyGuard) seen(body string) bool {
	digest := strconv.FormatUint(xxhash.Sum64String(body), 16)
	if g.filter.Test(digest) {
		return true
	}
	g.filter.Add(digest)
	return false
}
