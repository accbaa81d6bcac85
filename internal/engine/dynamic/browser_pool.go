// internal/engine/dynamic/browser_pool.go
package dynamic

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/contentdesk/affkit/internal/engine"
	"github.com/rs/zerolog/log"
)

// MaxPoolSize caps the number of live browser tabs.
const MaxPoolSize = 10

// BrowserPool shares one Chrome process between at most size tabs.
type BrowserPool struct {
	size        int
	slots       chan struct{}
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu     sync.Mutex
	idle   []*Tab
	opened int
	closed bool
}

// Tab is one chromedp target and its cancel function.
type Tab struct {
	Ctx    context.Context
	Cancel context.CancelFunc
}

// PoolOptions configures the browser pool
type PoolOptions struct {
	Size       int
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
}

func allocatorOptions(opts PoolOptions) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if path := FindChrome(opts.ChromePath); path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	return allocOpts
}

// NewBrowserPool prepares a Chrome allocator. Chrome itself starts with the
// first tab; tabs are opened on demand up to opts.Size and reused after.
func NewBrowserPool(opts PoolOptions) (*BrowserPool, error) {
	if opts.Size <= 0 {
		opts.Size = 1
	}
	if opts.Size > MaxPoolSize {
		opts.Size = MaxPoolSize
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	log.Debug().Int("size", opts.Size).Bool("headless", opts.Headless).Msg("Browser pool ready")

	return &BrowserPool{
		size:        opts.Size,
		slots:       make(chan struct{}, opts.Size),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Acquire returns an idle tab, or opens a new one while fewer than Size tabs
// are in use. It blocks until a slot frees up or ctx is done.
func (bp *BrowserPool) Acquire(ctx context.Context) (*Tab, error) {
	select {
	case bp.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for browser tab: %w", ctx.Err())
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		<-bp.slots
		return nil, engine.ErrPoolClosed
	}
	if n := len(bp.idle); n > 0 {
		tab := bp.idle[n-1]
		bp.idle = bp.idle[:n-1]
		return tab, nil
	}

	tabCtx, cancel := chromedp.NewContext(bp.allocCtx)
	bp.opened++
	log.Debug().Int("open_tabs", bp.opened).Msg("Opened browser tab")
	return &Tab{Ctx: tabCtx, Cancel: cancel}, nil
}

// Release parks tab for reuse. A tab whose context has ended is discarded.
func (bp *BrowserPool) Release(tab *Tab) {
	defer func() { <-bp.slots }()

	if tab.Ctx.Err() == nil {
		_ = chromedp.Run(tab.Ctx, chromedp.Navigate("about:blank"))
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed || tab.Ctx.Err() != nil {
		tab.Cancel()
		bp.opened--
		return
	}
	bp.idle = append(bp.idle, tab)
}

// Close cancels every idle tab and stops Chrome.
func (bp *BrowserPool) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true
	for _, tab := range bp.idle {
		tab.Cancel()
	}
	bp.idle = nil
	bp.allocCancel()

	log.Debug().Int("tabs", bp.opened).Msg("Browser pool closed")
	return nil
}

// Size returns the maximum number of tabs.
func (bp *BrowserPool) Size() int {
	return bp.size
}

// Available returns how many more tabs can be acquired without waiting.
func (bp *BrowserPool) Available() int {
	return bp.size - len(bp.slots)
}
