package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	scrhttp "github.com/fwojciec/scriptorium/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the response body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>页面</body></html>"))
		}))
		defer srv.Close()

		f := scrhttp.NewFetcher(scrhttp.WithDelay(0))
		defer f.Close()

		html, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>页面</body></html>", html)
	})

	t.Run("sends a browser user agent", func(t *testing.T) {
		t.Parallel()

		var ua string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		f := scrhttp.NewFetcher(scrhttp.WithDelay(0))
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Contains(t, ua, "Mozilla/5.0")
	})

	t.Run("returns error for non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		f := scrhttp.NewFetcher(scrhttp.WithDelay(0))
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("spaces successive fetches by the configured delay", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		f := scrhttp.NewFetcher(scrhttp.WithDelay(50 * time.Millisecond))
		defer f.Close()

		ctx := context.Background()
		start := time.Now()
		_, err := f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		_, err = f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		f := scrhttp.NewFetcher(scrhttp.WithDelay(0))
		defer f.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.Fetch(ctx, srv.URL)
		assert.Error(t, err)
	})
}
