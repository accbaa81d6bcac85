package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestDomainLimiter_SharesBucketAcrossWWW(t *testing.T) {
	dl := NewDomainLimiter(0.001, 1)

	if !dl.Allow("https://www.amazon.com/dp/B08ABCDEF1") {
		t.Fatal("Expected first request to be allowed")
	}
	if dl.Allow("https://amazon.com/gp/product/B08ABCDEF1") {
		t.Error("Expected second request on the same host to be throttled")
	}
	if !dl.Allow("https://serpapi.com/search.json") {
		t.Error("Expected a different host to have its own bucket")
	}
	if dl.Hosts() != 2 {
		t.Errorf("Expected 2 host buckets, got %d", dl.Hosts())
	}
}

func TestDomainLimiter_WaitHonoursContext(t *testing.T) {
	dl := NewDomainLimiter(0.001, 1)
	_ = dl.Wait(context.Background(), "https://example.com/")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := dl.Wait(ctx, "https://example.com/"); err == nil {
		t.Error("Expected wait to fail once the context expires")
	}
}

func TestDomainLimiter_InvalidURLPasses(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	if err := dl.Wait(context.Background(), "::not a url"); err != nil {
		t.Errorf("Expected nil error for invalid URL, got %v", err)
	}
}

func TestDomainLimiter_SetLimit(t *testing.T) {
	dl := NewDomainLimiter(0.001, 1)
	dl.SetLimit("www.Example.com", 1000, 5)

	for i := 0; i < 5; i++ {
		if !dl.Allow("https://example.com/x") {
			t.Fatalf("request %d should be allowed after raising the burst", i)
		}
	}
}
