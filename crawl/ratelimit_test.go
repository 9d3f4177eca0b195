package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/scriptorium/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request per domain is immediate", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0.1)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("domains are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0.1)
		ctx := context.Background()

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, "a.example.com"))
		require.NoError(t, limiter.Wait(ctx, "b.example.com"))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("second request to a domain is spaced", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(20)
		ctx := context.Background()

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, "example.com"))
		require.NoError(t, limiter.Wait(ctx, "example.com"))
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("returns when the context is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0.001)
		ctx := context.Background()
		require.NoError(t, limiter.Wait(ctx, "example.com"))

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, limiter.Wait(canceled, "example.com"))
	})
}
