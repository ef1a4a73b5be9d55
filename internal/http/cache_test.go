package http

import (
	"testing"
	"time"
)

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should be evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Errorf("b = %v, %v; want 2, true", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("c = %v, %v; want 3, true", v, ok)
	}
}

func TestLRUCacheRecency(t *testing.T) {
	c := newLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")    // refresh "a"
	c.Set("c", 3) // should evict "b", not "a"

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry should survive eviction")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := newLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should not be served")
	}
	if removed := c.CleanExpired(); removed != 0 {
		// Get already removed it lazily.
		t.Errorf("CleanExpired removed %d, want 0 after lazy removal", removed)
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request 61 within a minute should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("other clients must not be affected")
	}
}

func TestUserGenerationInvalidation(t *testing.T) {
	s := newTestServer(t)

	k1 := s.reportCacheKey(1, "thisMonth")
	s.invalidateReports(1)
	k2 := s.reportCacheKey(1, "thisMonth")
	if k1 == k2 {
		t.Error("invalidation should change the cache key")
	}

	other1 := s.reportCacheKey(2, "thisMonth")
	s.invalidateReports(1)
	other2 := s.reportCacheKey(2, "thisMonth")
	if other1 != other2 {
		t.Error("invalidation must not affect other users")
	}
}
