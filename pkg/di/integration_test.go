package di

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-content-cache/cache"
	"github.com/goliatone/go-content-cache/content"
	"github.com/goliatone/go-content-cache/contentcache"
	"github.com/goliatone/go-content-cache/metrics"
	"github.com/goliatone/go-content-cache/pkg/testsupport"
)

// countingSource wraps a content source and counts queries, so tests can
// tell a cache hit from a recompute.
type countingSource struct {
	inner   metrics.ContentSource
	queries atomic.Int32
}

func (c *countingSource) ListByOwner(ctx context.Context, userID string) ([]*content.Item, error) {
	c.queries.Add(1)
	return c.inner.ListByOwner(ctx, userID)
}

func (c *countingSource) ListByOwnerBetween(ctx context.Context, userID string, start, end time.Time) ([]*content.Item, error) {
	c.queries.Add(1)
	return c.inner.ListByOwnerBetween(ctx, userID, start, end)
}

func (c *countingSource) ListRecentByOwner(ctx context.Context, userID string, limit int) ([]*content.Item, error) {
	c.queries.Add(1)
	return c.inner.ListRecentByOwner(ctx, userID, limit)
}

func newTestContainer(t *testing.T, source metrics.ContentSource) *Container {
	t.Helper()
	container, err := NewContainer(cache.DefaultConfig(), source, nil)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestIntegration_AnalyticsEndToEnd(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mem := testsupport.NewMemorySource(
		testsupport.NewItem("7",
			testsupport.WithType(content.TypeBlogPost),
			testsupport.WithReach(120),
			testsupport.WithCreatedAt(base.Add(3*time.Hour))),
		testsupport.NewItem("7",
			testsupport.WithPlatform(content.PlatformTwitter),
			testsupport.WithReach(80),
			testsupport.WithCreatedAt(base.Add(27*time.Hour))),
	)
	source := &countingSource{inner: mem}
	container := newTestContainer(t, source)
	ctx := context.Background()

	dc := container.DomainCache()
	result, err := dc.AdvancedAnalytics(ctx, "7", base, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("AdvancedAnalytics failed: %v", err)
	}
	if result.Overview.TotalItems != 2 || result.Overview.TotalReach != 200 || result.Overview.AvgReach != 100 {
		t.Errorf("unexpected overview: %+v", result.Overview)
	}

	afterMiss := source.queries.Load()
	again, err := dc.AdvancedAnalytics(ctx, "7", base, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("cached AdvancedAnalytics failed: %v", err)
	}
	if source.queries.Load() != afterMiss {
		t.Error("second identical request should be served from cache")
	}
	if again.Overview != result.Overview {
		t.Errorf("cached payload diverged: %+v vs %+v", again.Overview, result.Overview)
	}
}

func TestIntegration_MutationInvalidatesAggregates(t *testing.T) {
	mem := testsupport.NewMemorySource(testsupport.NewItem("1", testsupport.WithReach(100)))
	container := newTestContainer(t, &countingSource{inner: mem})
	ctx := context.Background()
	dc := container.DomainCache()

	before, err := dc.UserStats(ctx, "1")
	if err != nil {
		t.Fatalf("UserStats failed: %v", err)
	}
	if before.TotalItems != 1 {
		t.Fatalf("expected 1 item before mutation, got %d", before.TotalItems)
	}

	// Simulate a content create: write the row, then invalidate.
	mem.Add(testsupport.NewItem("1", testsupport.WithReach(300)))
	if err := dc.InvalidateUser(ctx, "1"); err != nil {
		t.Fatalf("InvalidateUser failed: %v", err)
	}

	after, err := dc.UserStats(ctx, "1")
	if err != nil {
		t.Fatalf("UserStats after mutation failed: %v", err)
	}
	if after.TotalItems != 2 || after.TotalReach != 400 {
		t.Errorf("stats should reflect the mutation, got %+v", after)
	}
}

func TestIntegration_StaleStatsWithoutInvalidation(t *testing.T) {
	mem := testsupport.NewMemorySource(testsupport.NewItem("1"))
	container := newTestContainer(t, &countingSource{inner: mem})
	ctx := context.Background()
	dc := container.DomainCache()

	if _, err := dc.UserStats(ctx, "1"); err != nil {
		t.Fatalf("UserStats failed: %v", err)
	}
	mem.Add(testsupport.NewItem("1"))

	// Within the TTL and with no invalidation the cached value is served.
	stats, err := dc.UserStats(ctx, "1")
	if err != nil {
		t.Fatalf("UserStats failed: %v", err)
	}
	if stats.TotalItems != 1 {
		t.Errorf("expected the stale cached value without invalidation, got %+v", stats)
	}
}

func TestIntegration_GenerationReadThrough(t *testing.T) {
	container := newTestContainer(t, testsupport.NewMemorySource())
	ctx := context.Background()

	var providerCalls atomic.Int32
	generate := func(ctx context.Context) (*content.GenerationResult, error) {
		providerCalls.Add(1)
		return &content.GenerationResult{Text: "ten ways to water tomatoes", WordCount: 5}, nil
	}

	dc := container.DomainCache()
	key := dc.Key(contentcache.NamespaceContent, "", "gardening", "tomatoes", "blog_post", "General")

	for i := 0; i < 3; i++ {
		result, err := cache.GetOrFetch(ctx, container.LocalService(), key, generate)
		if err != nil {
			t.Fatalf("GetOrFetch failed: %v", err)
		}
		if result.WordCount != 5 {
			t.Fatalf("unexpected generation result: %+v", result)
		}
	}

	if got := providerCalls.Load(); got != 1 {
		t.Errorf("identical generation requests should share one provider call, got %d", got)
	}
}

func TestIntegration_GenerationCacheSharedAcrossUsers(t *testing.T) {
	container := newTestContainer(t, testsupport.NewMemorySource())
	ctx := context.Background()
	dc := container.DomainCache()

	params := contentcache.GenerationParams{
		Topic:       "gardening",
		Keyword:     "tomatoes",
		ContentType: content.TypeBlogPost,
		Platform:    content.PlatformGeneral,
	}
	dc.StoreGeneration(ctx, params, &content.GenerationResult{Text: "cached", WordCount: 1})

	// A user mutation clears that user's aggregates, never the shared
	// generation entries.
	if err := dc.InvalidateUser(ctx, "1"); err != nil {
		t.Fatalf("InvalidateUser failed: %v", err)
	}
	if _, ok := dc.Generation(ctx, params); !ok {
		t.Error("generation cache should survive user invalidation")
	}
}
