// internal/engine/hybrid/fetcher.go
package hybrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/contentdesk/affkit/internal/engine"
	"github.com/contentdesk/affkit/pkg/models"
	"github.com/rs/zerolog/log"
)

// Fetcher tries a plain HTTP fetch first and falls back to a rendered fetch
// when the page looks blocked. Either side may be nil.
type Fetcher struct {
	static   engine.Fetcher
	rendered engine.Fetcher
}

// New builds the fetcher used for mode.
func New(mode models.RenderMode, static, rendered engine.Fetcher) (*Fetcher, error) {
	switch mode {
	case models.RenderStatic:
		rendered = nil
	case models.RenderBrowser:
		static = nil
	case models.RenderAuto, "":
	default:
		return nil, fmt.Errorf("unknown render mode %q", mode)
	}
	if static == nil && rendered == nil {
		return nil, errors.New("hybrid fetcher needs at least one fetcher")
	}
	return &Fetcher{static: static, rendered: rendered}, nil
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "hybrid"
}

// Fetch returns the first non-blocked page. A page that stays blocked after
// every available fetcher is reported as a BLOCKED EngineError.
func (f *Fetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	if f.static != nil {
		page, err := f.static.Fetch(ctx, opts)
		if !f.escalate(page, err) {
			return checkBlocked(page, err)
		}
		if f.rendered == nil {
			return checkBlocked(page, err)
		}
		log.Debug().Str("url", opts.URL).Err(err).Msg("Static fetch blocked, escalating to browser")
	}
	return checkBlocked(f.rendered.Fetch(ctx, opts))
}

func (f *Fetcher) escalate(page *models.Page, err error) bool {
	if err != nil {
		var engErr *engine.EngineError
		if errors.As(err, &engErr) && engErr.Code == engine.ErrCodeHTTPStatus {
			return ShouldEscalate(engErr.StatusCode, "")
		}
		return false
	}
	return ShouldEscalate(page.StatusCode, page.HTML)
}

func checkBlocked(page *models.Page, err error) (*models.Page, error) {
	if err != nil {
		return nil, err
	}
	if Blocked(page.HTML) {
		return nil, &engine.EngineError{
			Code:       engine.ErrCodeBlocked,
			Message:    "robot check page returned",
			StatusCode: page.StatusCode,
		}
	}
	return page, nil
}
