package fetch

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/morden35/spatula"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	cache, err := OpenCache(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

// TestCacheRoundTrip tests store and lookup of a response.
func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Minute)
	ctx := context.Background()
	req := &spatula.URL{URL: "http://example.com/people", Method: http.MethodGet}
	stored := &spatula.Response{
		StatusCode:  200,
		URL:         "http://example.com/people",
		Header:      http.Header{"Content-Type": {"text/html"}},
		ContentType: "text/html",
		Body:        []byte("<html>roster</html>"),
	}

	if err := cache.Put(ctx, req, stored); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := cache.Get(ctx, req)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.StatusCode != 200 || got.URL != stored.URL {
		t.Errorf("unexpected entry: %+v", got)
	}
	if string(got.Body) != "<html>roster</html>" {
		t.Errorf("body lost through the cache: %q", got.Body)
	}
	if got.Header.Get("Content-Type") != "text/html" {
		t.Errorf("headers lost through the cache: %v", got.Header)
	}
}

// TestCacheMiss tests lookups of never-stored requests.
func TestCacheMiss(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Minute)
	_, ok, err := cache.Get(context.Background(), &spatula.URL{URL: "http://example.com/absent"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("expected a miss for a never-stored request")
	}
}

// TestCacheKeying tests that method, location, and body all distinguish
// entries.
func TestCacheKeying(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Minute)
	ctx := context.Background()

	base := &spatula.URL{URL: "http://example.com/search", Method: http.MethodPost, Body: []byte("q=a")}
	if err := cache.Put(ctx, base, &spatula.Response{StatusCode: 200, Body: []byte("a")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	others := []*spatula.URL{
		{URL: "http://example.com/search", Method: http.MethodPost, Body: []byte("q=b")},
		{URL: "http://example.com/other", Method: http.MethodPost, Body: []byte("q=a")},
		{URL: "http://example.com/search", Method: http.MethodGet, Body: []byte("q=a")},
	}
	for _, req := range others {
		if _, ok, _ := cache.Get(ctx, req); ok {
			t.Errorf("expected miss for %s %s body=%s", req.Method, req.URL, req.Body)
		}
	}
	if _, ok, _ := cache.Get(ctx, base); !ok {
		t.Error("expected hit for the original request")
	}
}

// TestCacheExpiry tests that stale entries read as misses.
func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Millisecond)
	ctx := context.Background()
	req := &spatula.URL{URL: "http://example.com/stale"}

	if err := cache.Put(ctx, req, &spatula.Response{StatusCode: 200, Body: []byte("old")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, ok, err := cache.Get(ctx, req)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("expected a stale entry to read as a miss")
	}
}

// TestCachePurge tests bulk removal.
func TestCachePurge(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t, time.Minute)
	ctx := context.Background()
	req := &spatula.URL{URL: "http://example.com/purge-me"}

	if err := cache.Put(ctx, req, &spatula.Response{StatusCode: 200}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := cache.Purge(ctx); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, req); ok {
		t.Error("expected the cache to be empty after purge")
	}
}
