package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Request is one resolution request. The API key is passed per call.
type Request struct {
	URL    string
	APIKey string
}

// Observer receives one call per strategy attempt. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveAttempt(strategy string, outcome Outcome, d time.Duration)
}

// Resolver runs the strategies in order and returns the first record.
type Resolver struct {
	strategies []Strategy
	observer   Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithObserver reports every attempt to o.
func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// NewResolver creates a Resolver trying strategies in the given order.
func NewResolver(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{strategies: strategies}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultStrategies returns the standard chain: structured lookup, keyword
// search and web search through searcher, then the page strategy when page
// is non-nil.
func DefaultStrategies(searcher Searcher, page *PageParse) []Strategy {
	strategies := []Strategy{
		NewProductLookup(searcher),
		NewKeywordSearch(searcher),
		NewWebSearch(searcher),
	}
	if page != nil {
		strategies = append(strategies, page)
	}
	return strategies
}

// Resolve derives a query from req.URL and tries each strategy in turn,
// stopping at the first success. Strategy failures are absorbed into the
// returned Diagnostics. The error is ErrNoIdentifiableProduct when the URL
// yields no query or no strategy could run, an *ExhaustedError when all
// strategies failed, or the context error when ctx ended.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Record, Diagnostics, error) {
	q, err := ParseQuery(req.URL)
	if err != nil {
		return nil, nil, err
	}
	q.APIKey = req.APIKey

	logger := log.With().Str("url", q.URL).Str("code", q.Code).Logger()
	diags := make(Diagnostics, 0, len(r.strategies))
	ran := 0

	for i, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			return nil, diags, fmt.Errorf("resolve canceled: %w", err)
		}

		attempt := Attempt{Strategy: s.Name(), Tier: i + 1}
		if s.RequiresCode() && !q.HasCode() {
			attempt.Outcome = OutcomeSkipped
			attempt.Reason = "no product code in URL"
			diags = append(diags, attempt)
			r.observe(attempt)
			logger.Debug().Str("strategy", s.Name()).Msg("Strategy skipped")
			continue
		}

		ran++
		start := time.Now()
		rec, err := s.Attempt(ctx, q)
		attempt.Duration = time.Since(start)

		if err == nil && rec != nil {
			attempt.Outcome = OutcomeSucceeded
			diags = append(diags, attempt)
			r.observe(attempt)
			if rec.SourceTier == "" {
				rec.SourceTier = s.Name()
			}
			logger.Debug().
				Str("strategy", s.Name()).
				Dur("elapsed", attempt.Duration).
				Msg("Strategy succeeded")
			return rec, diags, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, diags, fmt.Errorf("resolve canceled: %w", ctxErr)
		}
		if err == nil {
			err = NewStrategyError(s.Name(), ErrCodeIncomplete, "strategy returned no record", nil)
		}

		attempt.Outcome = OutcomeFailed
		attempt.Reason = classify(s.Name(), err).Error()
		diags = append(diags, attempt)
		r.observe(attempt)
		logger.Debug().
			Str("strategy", s.Name()).
			Dur("elapsed", attempt.Duration).
			Str("reason", attempt.Reason).
			Msg("Strategy failed")
	}

	if ran == 0 {
		return nil, diags, fmt.Errorf("%w: no strategy applies to %q", ErrNoIdentifiableProduct, q.URL)
	}
	return nil, diags, &ExhaustedError{Attempts: diags}
}

func (r *Resolver) observe(a Attempt) {
	if r.observer != nil {
		r.observer.ObserveAttempt(a.Strategy, a.Outcome, a.Duration)
	}
}
