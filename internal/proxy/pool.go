package proxy

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped.
const DefaultCooldown = 5 * time.Minute

// ProxyPool rotates through a list of proxies, skipping ones that failed
// recently.
type ProxyPool struct {
	proxies  []string
	index    int
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
}

// NewProxyPool creates a new ProxyPool
func NewProxyPool(proxies []string) *ProxyPool {
	clean := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return &ProxyPool{
		proxies:  clean,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
	}
}

// ParseList splits a comma separated proxy list.
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Len returns the number of configured proxies.
func (p *ProxyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// SetCooldown changes how long a failed proxy is skipped.
func (p *ProxyPool) SetCooldown(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cooldown = d
}

// GetNext returns the next healthy proxy from the pool. When every proxy is
// cooling down the next one in line is returned anyway.
func (p *ProxyPool) GetNext() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[candidate]
		if !ok {
			return candidate
		}
		if time.Since(failedAt) >= p.cooldown {
			delete(p.failed, candidate)
			return candidate
		}
		if p.index == start {
			return candidate
		}
	}
}

// MarkFailed marks a proxy as failed so it will be skipped for a while
func (p *ProxyPool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = time.Now()
}

// MarkHealthy clears the failure status of a proxy
func (p *ProxyPool) MarkHealthy(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

// Choice records which proxy served a request.
type Choice struct {
	mu    sync.Mutex
	proxy string
}

// Proxy returns the chosen proxy, or "" when none was used.
func (c *Choice) Proxy() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proxy
}

type choiceKey struct{}

// Track returns a context that records the proxy picked for requests made with it.
func Track(ctx context.Context) (context.Context, *Choice) {
	c := &Choice{}
	return context.WithValue(ctx, choiceKey{}, c), c
}

// ProxyFunc adapts the pool to http.Transport.Proxy.
func (p *ProxyPool) ProxyFunc() func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		next := p.GetNext()
		if next == "" {
			return nil, nil
		}
		if c, ok := req.Context().Value(choiceKey{}).(*Choice); ok {
			c.mu.Lock()
			c.proxy = next
			c.mu.Unlock()
		}
		return url.Parse(next)
	}
}
