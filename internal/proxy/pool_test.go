package proxy

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestProxyPool(t *testing.T) {
	pool := NewProxyPool([]string{"p1", " p2 ", "p3", ""})

	if pool.Len() != 3 {
		t.Fatalf("Expected 3 proxies, got %d", pool.Len())
	}

	// Test rotation
	for _, want := range []string{"p1", "p2", "p3", "p1"} {
		if p := pool.GetNext(); p != want {
			t.Errorf("Expected %s, got %s", want, p)
		}
	}

	// p2 is next in line but cooling down
	pool.MarkFailed("p2")
	if p := pool.GetNext(); p != "p3" {
		t.Errorf("Expected p3 (skipping p2), got %s", p)
	}
	if p := pool.GetNext(); p != "p1" {
		t.Errorf("Expected p1, got %s", p)
	}

	pool.MarkHealthy("p2")
	if p := pool.GetNext(); p != "p2" {
		t.Errorf("Expected p2 after MarkHealthy, got %s", p)
	}
}

func TestProxyPool_AllFailedStillReturnsOne(t *testing.T) {
	pool := NewProxyPool([]string{"p1", "p2"})
	pool.MarkFailed("p1")
	pool.MarkFailed("p2")

	if p := pool.GetNext(); p == "" {
		t.Error("Expected a proxy even when all are cooling down")
	}
}

func TestProxyPool_CooldownExpires(t *testing.T) {
	pool := NewProxyPool([]string{"p1", "p2"})
	pool.SetCooldown(time.Millisecond)
	pool.MarkFailed("p1")
	time.Sleep(5 * time.Millisecond)

	if p := pool.GetNext(); p != "p1" {
		t.Errorf("Expected p1 after cooldown, got %s", p)
	}
}

func TestProxyFunc_RecordsChoice(t *testing.T) {
	pool := NewProxyPool([]string{"http://127.0.0.1:8081"})
	ctx, choice := Track(context.Background())

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.amazon.com/", nil)
	u, err := pool.ProxyFunc()(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Host != "127.0.0.1:8081" {
		t.Errorf("Expected proxy host 127.0.0.1:8081, got %s", u.Host)
	}
	if choice.Proxy() != "http://127.0.0.1:8081" {
		t.Errorf("Expected choice to be recorded, got %q", choice.Proxy())
	}
}

func TestProxyFunc_EmptyPool(t *testing.T) {
	pool := NewProxyPool(ParseList(""))
	req, _ := http.NewRequest(http.MethodGet, "https://www.amazon.com/", nil)
	u, err := pool.ProxyFunc()(req)
	if err != nil || u != nil {
		t.Errorf("Expected direct connection, got %v, %v", u, err)
	}
}
